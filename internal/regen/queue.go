// Package regen runs keyed background jobs with per-key coalescing.
//
// A key is in at most one of these states: waiting out its debounce window,
// queued for a worker, or running. Triggers for a waiting or queued key are
// folded into the pending run. A trigger for a running key marks it dirty and
// the key runs exactly once more after the current run finishes, so the last
// trigger is always followed by a run that observes its effects.
package regen

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/reelnotes/reelnotes-server/internal/metrics"
)

// Job processes one key.
type Job[K comparable] func(ctx context.Context, key K) error

// Config controls queue timing and parallelism.
type Config struct {
	Debounce time.Duration // wait after the first trigger before a key becomes runnable
	Workers  int           // number of concurrent job runners
}

type keyState struct {
	waiting bool
	queued  bool
	running bool
	dirty   bool
	gen     uint64
	timer   *time.Timer
}

// Queue is a keyed, coalescing, debounced worker pool.
type Queue[K comparable] struct {
	job      Job[K]
	debounce time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	states map[K]*keyState
	ready  []K
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a queue and starts its workers.
func New[K comparable](job Job[K], cfg Config, logger *slog.Logger) *Queue[K] {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Debounce < 0 {
		cfg.Debounce = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue[K]{
		job:      job,
		debounce: cfg.Debounce,
		logger:   logger,
		states:   make(map[K]*keyState),
		ctx:      ctx,
		cancel:   cancel,
	}
	q.cond = sync.NewCond(&q.mu)

	for range cfg.Workers {
		q.wg.Go(q.worker)
	}
	return q
}

// Enqueue triggers a run for key. It never blocks on job execution.
// It returns false once the queue is shutting down.
func (q *Queue[K]) Enqueue(key K) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	st, ok := q.states[key]
	if !ok {
		st = &keyState{}
		q.states[key] = st
		q.arm(key, st)
		q.updatePending()
		return true
	}

	// A waiting or queued key already covers this trigger.
	if st.running {
		st.dirty = true
	}
	metrics.RegenQueueCoalesced.Inc()
	return true
}

// Pending reports how many keys are waiting, queued or running.
func (q *Queue[K]) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.states)
}

// Shutdown stops accepting triggers, runs every key that is still waiting
// out its debounce window, and waits for workers to drain. If ctx expires
// first, running jobs see their context canceled and ctx.Err() is returned.
func (q *Queue[K]) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		for key, st := range q.states {
			if st.waiting {
				st.timer.Stop()
				st.waiting = false
				st.timer = nil
				q.push(key, st)
			}
		}
		q.cond.Broadcast()
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		return ctx.Err()
	}
}

// arm starts the debounce window for key. Callers hold q.mu.
func (q *Queue[K]) arm(key K, st *keyState) {
	st.gen++
	gen := st.gen
	st.waiting = true
	st.timer = time.AfterFunc(q.debounce, func() { q.promote(key, gen) })
}

// promote moves key from waiting to queued when its window elapses.
func (q *Queue[K]) promote(key K, gen uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	st, ok := q.states[key]
	if !ok || !st.waiting || st.gen != gen {
		return
	}
	st.waiting = false
	st.timer = nil
	q.push(key, st)
}

// push appends key to the ready list. Callers hold q.mu.
func (q *Queue[K]) push(key K, st *keyState) {
	st.queued = true
	q.ready = append(q.ready, key)
	q.updatePending()
	q.cond.Signal()
}

// next blocks until a key is ready, or returns false when the queue is
// closed and drained.
func (q *Queue[K]) next() (K, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.ready) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.ready) == 0 {
		var zero K
		return zero, false
	}

	key := q.ready[0]
	q.ready = q.ready[1:]
	st := q.states[key]
	st.queued = false
	st.running = true
	st.dirty = false
	q.updatePending()
	return key, true
}

func (q *Queue[K]) worker() {
	for {
		key, ok := q.next()
		if !ok {
			return
		}
		q.run(key)
		q.finish(key)
	}
}

func (q *Queue[K]) run(key K) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("regeneration job panicked", "key", fmt.Sprint(key), "panic", r)
		}
	}()

	if err := q.job(q.ctx, key); err != nil {
		q.logger.Warn("regeneration job failed", "key", fmt.Sprint(key), "error", err)
	}
}

// finish settles key after a run: a dirty key runs once more, a clean one is forgotten.
func (q *Queue[K]) finish(key K) {
	q.mu.Lock()
	defer q.mu.Unlock()

	st := q.states[key]
	st.running = false
	if !st.dirty {
		delete(q.states, key)
		q.updatePending()
		return
	}

	st.dirty = false
	if q.closed {
		q.push(key, st)
		return
	}
	q.arm(key, st)
}

// updatePending publishes the number of runnable keys. Callers hold q.mu.
func (q *Queue[K]) updatePending() {
	metrics.RegenQueuePending.Set(float64(len(q.ready)))
}
