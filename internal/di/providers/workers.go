package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/reelnotes/reelnotes-server/internal/config"
	"github.com/reelnotes/reelnotes-server/internal/domain"
	"github.com/reelnotes/reelnotes-server/internal/logger"
	"github.com/reelnotes/reelnotes-server/internal/regen"
	"github.com/reelnotes/reelnotes-server/internal/service"
)

// RegenQueueHandle wraps the blog regeneration queue for lifecycle management.
type RegenQueueHandle struct {
	*regen.Queue[domain.PostKey]
}

// Shutdown implements do.Shutdownable. Pending keys are drained first.
func (h *RegenQueueHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Queue.Shutdown(ctx)
}

// ProvideRegenQueue provides the debounced blog post regeneration queue.
func ProvideRegenQueue(i do.Injector) (*RegenQueueHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	blogService := do.MustInvoke[*service.BlogService](i)

	queue := regen.New[domain.PostKey](blogService.Regenerate, regen.Config{
		Debounce: cfg.Blog.Debounce,
		Workers:  cfg.Blog.Workers,
	}, log.Logger)

	log.Info("Blog regeneration queue started",
		"debounce", cfg.Blog.Debounce,
		"workers", cfg.Blog.Workers,
	)

	return &RegenQueueHandle{Queue: queue}, nil
}
