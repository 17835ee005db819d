package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/reelnotes/reelnotes-server/internal/cache"
	"github.com/reelnotes/reelnotes-server/internal/config"
	"github.com/reelnotes/reelnotes-server/internal/logger"
)

// CacheHandle wraps the Badger cache backend with shutdown capability.
type CacheHandle struct {
	*cache.BadgerBackend
}

// Shutdown implements do.Shutdownable.
func (h *CacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideCache provides the persistent cache backend used by the taxonomy cache.
func ProvideCache(i do.Injector) (*CacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	path := filepath.Join(cfg.Data.BasePath, "cache")
	backend, err := cache.OpenBadger(path)
	if err != nil {
		return nil, err
	}

	log.Info("Cache initialized", "path", path, "ttl", cfg.Cache.TaxonomyTTL)

	return &CacheHandle{BadgerBackend: backend}, nil
}
