// Package cache provides a typed TTL cache over a pluggable backend.
package cache

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"time"

	"github.com/reelnotes/reelnotes-server/internal/logger"
	"github.com/reelnotes/reelnotes-server/internal/metrics"
)

// entry is the stored envelope. The expiry travels with the value so every
// backend is judged by the same clock.
type entry[T any] struct {
	Value     T         `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Cache is a typed TTL cache. Values are JSON encoded.
type Cache[T any] struct {
	name    string
	backend Backend
	clock   Clock
	logger  *slog.Logger
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	clock  Clock
	logger *slog.Logger
}

// WithClock injects the clock used to stamp and judge expiry.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithLogger sets the logger for backend failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a cache. name labels metrics and log lines.
func New[T any](name string, backend Backend, opts ...Option) *Cache[T] {
	o := options{clock: SystemClock{}, logger: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[T]{
		name:    name,
		backend: backend,
		clock:   o.clock,
		logger:  o.logger.With("cache", name),
	}
}

// Get returns the cached value for key. Misses, expired entries, corrupt
// payloads and backend errors all report ok == false.
func (c *Cache[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T

	raw, found, err := c.backend.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache backend get failed", "key", key, "error", err)
		c.miss()
		return zero, false
	}
	if !found {
		c.miss()
		return zero, false
	}

	var e entry[T]
	if err := json.Unmarshal(raw, &e); err != nil {
		c.logger.Warn("dropping undecodable cache entry", "key", key, "error", err)
		_ = c.backend.Delete(ctx, key)
		c.miss()
		return zero, false
	}

	if !c.clock.Now().Before(e.ExpiresAt) {
		_ = c.backend.Delete(ctx, key)
		c.miss()
		return zero, false
	}

	metrics.CacheHits.WithLabelValues(c.name).Inc()
	return e.Value, true
}

// Set stores value under key for ttl.
func (c *Cache[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("cache %s: ttl must be positive, got %s", c.name, ttl)
	}

	e := entry[T]{Value: value, ExpiresAt: c.clock.Now().Add(ttl)}
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("cache %s: marshal %q: %w", c.name, key, err)
	}
	if err := c.backend.Set(ctx, key, raw, e.ExpiresAt); err != nil {
		return fmt.Errorf("cache %s: set %q: %w", c.name, key, err)
	}
	return nil
}

// Invalidate drops key.
func (c *Cache[T]) Invalidate(ctx context.Context, key string) error {
	if err := c.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("cache %s: invalidate %q: %w", c.name, key, err)
	}
	return nil
}

func (c *Cache[T]) miss() {
	metrics.CacheMisses.WithLabelValues(c.name).Inc()
}
