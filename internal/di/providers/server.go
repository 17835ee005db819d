package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/reelnotes/reelnotes-server/internal/api"
	"github.com/reelnotes/reelnotes-server/internal/auth"
	"github.com/reelnotes/reelnotes-server/internal/config"
	"github.com/reelnotes/reelnotes-server/internal/logger"
	"github.com/reelnotes/reelnotes-server/internal/metadata/tmdb"
	"github.com/reelnotes/reelnotes-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Join(h.Server.Shutdown(ctx), h.api.Shutdown())
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	client := do.MustInvoke[*tmdb.Client](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Profile:  do.MustInvoke[*service.ProfileService](i),
		Movie:    do.MustInvoke[*service.MovieService](i),
		Taxonomy: do.MustInvoke[*service.TaxonomyService](i),
		Curation: do.MustInvoke[*service.CurationService](i),
		Blog:     do.MustInvoke[*service.BlogService](i),
	}

	apiServer := api.NewServer(
		storeHandle.Store,
		services,
		tokens,
		api.HealthDeps{Search: indexHandle.SearchIndex, Provider: client},
		api.Options{
			CORSOrigins:         cfg.Server.CORSOrigins,
			PublicRatePerMinute: cfg.Server.PublicRatePerMinute,
		},
		log.Logger,
	)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      apiServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", fmt.Errorf("listen on %s: %w", httpServer.Addr, err))
		}
	}()

	return &HTTPServerHandle{Server: httpServer, api: apiServer}, nil
}
