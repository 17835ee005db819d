package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/reelnotes/reelnotes-server/internal/domain"
	domainerrors "github.com/reelnotes/reelnotes-server/internal/errors"
	"github.com/reelnotes/reelnotes-server/internal/id"
	"github.com/reelnotes/reelnotes-server/internal/media/images"
	"github.com/reelnotes/reelnotes-server/internal/metadata/tmdb"
	"github.com/reelnotes/reelnotes-server/internal/metrics"
	"github.com/reelnotes/reelnotes-server/internal/normalize"
	"github.com/reelnotes/reelnotes-server/internal/search"
	"github.com/reelnotes/reelnotes-server/internal/store"
	"github.com/reelnotes/reelnotes-server/internal/validation"
)

var releaseDateRe = regexp.MustCompile(`^\d{4}(-\d{2}-\d{2})?$`)

// MovieService manages the shared movie catalog.
type MovieService struct {
	store         store.Store
	provider      MetadataProvider
	search        *SearchService
	regen         Regenerator
	validator     *validation.Validator
	enrichTimeout time.Duration
	logger        *slog.Logger
}

// NewMovieService creates a new movie service.
func NewMovieService(
	store store.Store,
	provider MetadataProvider,
	search *SearchService,
	regen Regenerator,
	validator *validation.Validator,
	enrichTimeout time.Duration,
	logger *slog.Logger,
) *MovieService {
	return &MovieService{
		store:         store,
		provider:      provider,
		search:        search,
		regen:         regen,
		validator:     validator,
		enrichTimeout: enrichTimeout,
		logger:        logger,
	}
}

// CreateMovieInput adds a movie to the catalog.
type CreateMovieInput struct {
	Title       string `json:"title" validate:"required,notblank,max=300"`
	Overview    string `json:"overview" validate:"max=5000"`
	ReleaseDate string `json:"release_date" validate:"omitempty,max=10"`
	PosterURL   string `json:"poster_url" validate:"omitempty,url,max=2048"`
	TMDBID      *int64 `json:"tmdb_id" validate:"omitempty,gt=0"`
	IMDbID      string `json:"imdb_id" validate:"omitempty,startswith=tt,max=20"`
}

// MovieSearchResult combines catalog hits with provider results that are
// not yet in the catalog.
type MovieSearchResult struct {
	Local    []*domain.Movie     `json:"local"`
	External []tmdb.SearchResult `json:"external"`
}

// Search looks a title up locally and, when the provider is enabled, in the
// external catalog. Provider failures degrade to local results only.
func (s *MovieService) Search(ctx context.Context, query string, year int) (*MovieSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.Validation("query is required")
	}

	res := &MovieSearchResult{
		Local:    []*domain.Movie{},
		External: []tmdb.SearchResult{},
	}

	hits, err := s.search.Search(ctx, search.SearchParams{
		Query: query,
		Types: []search.DocType{search.DocTypeMovie},
		Year:  year,
	})
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "search failed")
	}
	if len(hits.Hits) > 0 {
		ids := make([]string, 0, len(hits.Hits))
		for _, h := range hits.Hits {
			ids = append(ids, h.ID)
		}
		movies, err := s.store.GetMoviesByIDs(ctx, ids)
		if err != nil {
			return nil, storeError(err, "movie")
		}
		res.Local = movies
	}

	if !s.provider.Enabled() {
		return res, nil
	}

	external, err := s.provider.SearchMovies(ctx, query, year)
	if err != nil {
		s.logger.Warn("provider search failed", "query", query, "error", err)
		return res, nil
	}

	tmdbIDs := make([]int64, 0, len(external))
	for _, r := range external {
		tmdbIDs = append(tmdbIDs, r.TMDBID)
	}
	known, err := s.store.GetMoviesByTMDBIDs(ctx, tmdbIDs)
	if err != nil {
		return nil, storeError(err, "movie")
	}
	for _, r := range external {
		if _, ok := known[r.TMDBID]; !ok {
			res.External = append(res.External, r)
		}
	}

	return res, nil
}

// Create adds a movie and enriches it from the provider. Enrichment is
// bounded by the enrichment timeout and its failures never fail the create.
func (s *MovieService) Create(ctx context.Context, input CreateMovieInput) (*domain.Movie, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}
	releaseDate := strings.TrimSpace(input.ReleaseDate)
	if releaseDate != "" && !releaseDateRe.MatchString(releaseDate) {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"release_date": "must be YYYY or YYYY-MM-DD",
		})
	}

	if input.TMDBID != nil {
		existing, err := s.store.GetMovieByTMDBID(ctx, *input.TMDBID)
		switch {
		case err == nil:
			return nil, domainerrors.Conflict("movie already in catalog").
				WithDetails(map[string]string{"movie_id": existing.ID})
		case !domainerrors.Is(err, store.ErrNotFound):
			return nil, storeError(err, "movie")
		}
	}

	movieID, err := id.Generate(id.PrefixMovie)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate movie id")
	}

	now := time.Now()
	movie := &domain.Movie{
		ID:          movieID,
		Title:       strings.TrimSpace(input.Title),
		Overview:    strings.TrimSpace(input.Overview),
		ReleaseDate: releaseDate,
		PosterURL:   input.PosterURL,
		TMDBID:      input.TMDBID,
		IMDbID:      input.IMDbID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateMovie(ctx, movie); err != nil {
		return nil, storeError(err, "movie")
	}
	s.logger.Info("movie created", "id", movie.ID, "title", movie.Title)

	if s.enrich(ctx, movie) {
		if err := s.store.UpdateMovie(ctx, movie); err != nil {
			s.logger.Error("failed to save enrichment", "id", movie.ID, "error", err)
		}
	}

	if err := s.search.IndexMovie(movie); err != nil {
		s.logger.Error("failed to index movie", "id", movie.ID, "error", err)
	}
	return movie, nil
}

// Get returns a movie.
func (s *MovieService) Get(ctx context.Context, movieID string) (*domain.Movie, error) {
	if strings.TrimSpace(movieID) == "" {
		return nil, domainerrors.Validation("movie id is required")
	}
	m, err := s.store.GetMovie(ctx, movieID)
	if err != nil {
		return nil, storeError(err, "movie")
	}
	return m, nil
}

// List returns a page of the catalog ordered by title.
func (s *MovieService) List(ctx context.Context, filter domain.MovieFilter, params store.PaginationParams) (*store.PaginatedResult[*domain.Movie], error) {
	params, err := pagination(params)
	if err != nil {
		return nil, err
	}
	page, err := s.store.ListMovies(ctx, filter.Normalized(), params)
	if err != nil {
		return nil, storeError(err, "movie")
	}
	return page, nil
}

// Delete removes a movie with every tag, category, note and post attached to it.
func (s *MovieService) Delete(ctx context.Context, actor Actor, movieID string) error {
	if !actor.IsAdmin {
		return domainerrors.Forbidden("admin access required")
	}

	postIDs, err := s.store.ListBlogPostIDsByMovie(ctx, movieID)
	if err != nil {
		return storeError(err, "movie")
	}
	if err := s.store.DeleteMovie(ctx, movieID); err != nil {
		return storeError(err, "movie")
	}

	if err := s.search.RemoveMovie(movieID, postIDs); err != nil {
		s.logger.Error("failed to remove movie from search", "id", movieID, "error", err)
	}
	s.logger.Info("movie deleted", "id", movieID, "posts", len(postIDs))
	return nil
}

// Refresh re-runs enrichment, overwriting provider-sourced fields, and
// regenerates every post about the movie.
func (s *MovieService) Refresh(ctx context.Context, actor Actor, movieID string) (*domain.Movie, error) {
	if !actor.IsAdmin {
		return nil, domainerrors.Forbidden("admin access required")
	}

	movie, err := s.store.GetMovie(ctx, movieID)
	if err != nil {
		return nil, storeError(err, "movie")
	}
	if movie.TMDBID == nil {
		return nil, domainerrors.Validation("movie has no tmdb_id to refresh from")
	}
	if !s.provider.Enabled() {
		return nil, domainerrors.Unavailable("metadata provider is not configured")
	}

	enrichCtx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
	defer cancel()

	details, err := s.provider.GetMovie(enrichCtx, *movie.TMDBID)
	if err != nil {
		if domainerrors.Is(err, tmdb.ErrNotFound) {
			return nil, domainerrors.NotFound("movie not found at provider")
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "metadata provider request failed")
	}
	s.merge(enrichCtx, movie, details, true)
	metrics.Enrichments.WithLabelValues("ok").Inc()

	if err := s.store.UpdateMovie(ctx, movie); err != nil {
		return nil, storeError(err, "movie")
	}
	if err := s.search.IndexMovie(movie); err != nil {
		s.logger.Error("failed to index movie", "id", movie.ID, "error", err)
	}
	s.regenerateMoviePosts(ctx, movie.ID)

	s.logger.Info("movie refreshed", "id", movie.ID, "tmdb_id", *movie.TMDBID)
	return movie, nil
}

// enrich merges provider details into movie and reports whether anything
// was merged. The provider lookup and poster download share one enrichment
// timeout. Failures are logged and counted, never returned.
func (s *MovieService) enrich(ctx context.Context, movie *domain.Movie) bool {
	if movie.TMDBID == nil {
		return false
	}
	if !s.provider.Enabled() {
		metrics.Enrichments.WithLabelValues("disabled").Inc()
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
	defer cancel()

	details, err := s.provider.GetMovie(ctx, *movie.TMDBID)
	switch {
	case domainerrors.Is(err, tmdb.ErrNotFound):
		metrics.Enrichments.WithLabelValues("not_found").Inc()
		s.logger.Warn("movie not found at provider", "id", movie.ID, "tmdb_id", *movie.TMDBID)
		return false
	case err != nil:
		metrics.Enrichments.WithLabelValues("error").Inc()
		s.logger.Warn("enrichment failed", "id", movie.ID, "tmdb_id", *movie.TMDBID, "error", err)
		return false
	}

	s.merge(ctx, movie, details, false)
	metrics.Enrichments.WithLabelValues("ok").Inc()
	return true
}

// merge copies provider details onto movie. Without overwrite only empty
// fields are filled.
func (s *MovieService) merge(ctx context.Context, movie *domain.Movie, d *tmdb.MovieDetails, overwrite bool) {
	setString := func(dst *string, v string) {
		if v != "" && (overwrite || *dst == "") {
			*dst = v
		}
	}

	setString(&movie.Overview, d.Overview)
	setString(&movie.ReleaseDate, d.ReleaseDate)
	setString(&movie.Director, d.Director)
	setString(&movie.Genre, normalize.Genres(d.Genres))
	setString(&movie.Tagline, d.Tagline)
	setString(&movie.IMDbID, d.IMDbID)
	if d.RuntimeMinutes > 0 && (overwrite || movie.RuntimeMinutes == 0) {
		movie.RuntimeMinutes = d.RuntimeMinutes
	}

	posterChanged := d.PosterURL != "" && d.PosterURL != movie.PosterURL && (overwrite || movie.PosterURL == "")
	if posterChanged {
		movie.PosterURL = d.PosterURL
		movie.PosterBlurHash = ""
	}
	if movie.PosterURL != "" && movie.PosterBlurHash == "" {
		movie.PosterBlurHash = s.posterBlurHash(ctx, movie)
	}

	now := time.Now()
	movie.EnrichedAt = &now
	movie.UpdatedAt = now
}

// posterBlurHash downloads the poster and encodes its placeholder.
// Returns "" on any failure.
func (s *MovieService) posterBlurHash(ctx context.Context, movie *domain.Movie) string {
	data, err := s.provider.FetchPoster(ctx, movie.PosterURL)
	if err != nil {
		s.logger.Debug("poster not fetched", "id", movie.ID, "error", err)
		return ""
	}
	hash, err := images.PosterBlurHash(data)
	if err != nil {
		s.logger.Debug("poster blurhash failed", "id", movie.ID, "error", err)
		return ""
	}
	return hash
}

func (s *MovieService) regenerateMoviePosts(ctx context.Context, movieID string) {
	postIDs, err := s.store.ListBlogPostIDsByMovie(ctx, movieID)
	if err != nil {
		s.logger.Error("failed to list posts for regeneration", "movie_id", movieID, "error", err)
		return
	}
	for _, postID := range postIDs {
		post, err := s.store.GetBlogPost(ctx, postID)
		if err != nil {
			s.logger.Error("failed to load post for regeneration", "post_id", postID, "error", err)
			continue
		}
		s.regen.Enqueue(domain.PostKey{UserID: post.UserID, MovieID: movieID})
	}
}
