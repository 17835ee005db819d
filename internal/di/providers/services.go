package providers

import (
	"github.com/samber/do/v2"

	"github.com/reelnotes/reelnotes-server/internal/blog"
	"github.com/reelnotes/reelnotes-server/internal/config"
	"github.com/reelnotes/reelnotes-server/internal/logger"
	"github.com/reelnotes/reelnotes-server/internal/metadata/tmdb"
	"github.com/reelnotes/reelnotes-server/internal/service"
	"github.com/reelnotes/reelnotes-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideBlogService provides the blog service.
func ProvideBlogService(i do.Injector) (*service.BlogService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBlogService(storeHandle.Store, searchService, blog.FeedConfig{
		SiteURL:     cfg.Blog.SiteURL,
		Title:       "ReelNotes",
		Description: "Movie notes and curated collections from ReelNotes members",
	}, log.Logger), nil
}

// ProvideProfileService provides the profile service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	queue := do.MustInvoke[*RegenQueueHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(storeHandle.Store, cfg.Identity, queue, validator, log.Logger), nil
}

// ProvideMovieService provides the movie service.
func ProvideMovieService(i do.Injector) (*service.MovieService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	client := do.MustInvoke[*tmdb.Client](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	queue := do.MustInvoke[*RegenQueueHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMovieService(
		storeHandle.Store,
		client,
		searchService,
		queue,
		validator,
		cfg.TMDB.EnrichTimeout,
		log.Logger,
	), nil
}

// ProvideTaxonomyService provides the tag and category service.
func ProvideTaxonomyService(i do.Injector) (*service.TaxonomyService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	queue := do.MustInvoke[*RegenQueueHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTaxonomyService(
		storeHandle.Store,
		cacheHandle.BadgerBackend,
		cfg.Cache.TaxonomyTTL,
		queue,
		validator,
		log.Logger,
	), nil
}

// ProvideCurationService provides the personalization service.
func ProvideCurationService(i do.Injector) (*service.CurationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	queue := do.MustInvoke[*RegenQueueHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCurationService(storeHandle.Store, queue, validator, log.Logger), nil
}
