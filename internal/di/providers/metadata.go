package providers

import (
	"github.com/samber/do/v2"

	"github.com/reelnotes/reelnotes-server/internal/config"
	"github.com/reelnotes/reelnotes-server/internal/logger"
	"github.com/reelnotes/reelnotes-server/internal/metadata/tmdb"
)

// ProvideTMDBClient provides the movie metadata client.
// The client is returned disabled when no API key is configured.
func ProvideTMDBClient(i do.Injector) (*tmdb.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := tmdb.New(tmdb.Config{
		APIKey:       cfg.TMDB.APIKey,
		BaseURL:      cfg.TMDB.BaseURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
	}, log.Logger)

	if client.Enabled() {
		log.Info("TMDB enrichment enabled", "base_url", cfg.TMDB.BaseURL)
	} else {
		log.Warn("TMDB_API_KEY not set, movie enrichment disabled")
	}

	return client, nil
}
