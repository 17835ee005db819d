package regen

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelnotes/reelnotes-server/internal/logger"
)

// counter records runs per key.
type counter struct {
	mu   sync.Mutex
	runs map[string]int
}

func newCounter() *counter { return &counter{runs: make(map[string]int)} }

func (c *counter) job(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs[key]++
	return nil
}

func (c *counter) get(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs[key]
}

func shutdown(t *testing.T, q *Queue[string]) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Shutdown(ctx))
}

func TestQueue_BurstCoalescesToOneRun(t *testing.T) {
	c := newCounter()
	q := New(c.job, Config{Debounce: time.Hour, Workers: 4}, logger.Discard())

	for range 10 {
		assert.True(t, q.Enqueue("user-1/mov-1"))
	}
	assert.Equal(t, 1, q.Pending())

	// Shutdown flushes the debounce window.
	shutdown(t, q)
	assert.Equal(t, 1, c.get("user-1/mov-1"))
	assert.Zero(t, q.Pending())
}

func TestQueue_DebounceDelaysRun(t *testing.T) {
	c := newCounter()
	q := New(c.job, Config{Debounce: 50 * time.Millisecond, Workers: 1}, logger.Discard())
	defer shutdown(t, q)

	q.Enqueue("k")
	assert.Zero(t, c.get("k"), "job must not run before the window elapses")

	assert.Eventually(t, func() bool { return c.get("k") == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestQueue_TriggerDuringRunRerunsExactlyOnce(t *testing.T) {
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	var runs atomic.Int32

	job := func(_ context.Context, _ string) error {
		n := runs.Add(1)
		started <- struct{}{}
		if n == 1 {
			<-release
		}
		return nil
	}

	q := New(job, Config{Debounce: 0, Workers: 2}, logger.Discard())

	q.Enqueue("k")
	<-started

	for range 5 {
		q.Enqueue("k")
	}
	close(release)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("dirty key was not re-run")
	}

	shutdown(t, q)
	assert.Equal(t, int32(2), runs.Load())
}

func TestQueue_AtMostOneInFlightPerKey(t *testing.T) {
	var (
		inFlight atomic.Int32
		maxSeen  atomic.Int32
		total    atomic.Int32
	)

	job := func(_ context.Context, _ string) error {
		n := inFlight.Add(1)
		for {
			m := maxSeen.Load()
			if n <= m || maxSeen.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		total.Add(1)
		return nil
	}

	q := New(job, Config{Debounce: 0, Workers: 4}, logger.Discard())
	for range 50 {
		q.Enqueue("same-key")
		time.Sleep(200 * time.Microsecond)
	}
	shutdown(t, q)

	assert.Equal(t, int32(1), maxSeen.Load())
	assert.GreaterOrEqual(t, total.Load(), int32(1))
}

func TestQueue_DistinctKeysRunInParallel(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(2)
	bothStarted := make(chan struct{})
	go func() {
		wg.Wait()
		close(bothStarted)
	}()

	job := func(ctx context.Context, _ string) error {
		wg.Done()
		select {
		case <-bothStarted:
		case <-ctx.Done():
		}
		return nil
	}

	q := New(job, Config{Debounce: 0, Workers: 2}, logger.Discard())
	q.Enqueue("a")
	q.Enqueue("b")

	select {
	case <-bothStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("distinct keys did not run concurrently")
	}
	shutdown(t, q)
}

func TestQueue_EnqueueAfterShutdownIsRejected(t *testing.T) {
	q := New(newCounter().job, Config{Workers: 1}, logger.Discard())
	shutdown(t, q)

	assert.False(t, q.Enqueue("late"))
}

func TestQueue_ShutdownTimeoutCancelsJobs(t *testing.T) {
	canceled := make(chan struct{})
	started := make(chan struct{})

	job := func(ctx context.Context, _ string) error {
		close(started)
		<-ctx.Done()
		close(canceled)
		return ctx.Err()
	}

	q := New(job, Config{Debounce: 0, Workers: 1}, logger.Discard())
	q.Enqueue("stuck")
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Shutdown(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	select {
	case <-canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("job context was not canceled")
	}
}

func TestQueue_PanicAndErrorDoNotStopWorkers(t *testing.T) {
	c := newCounter()
	job := func(ctx context.Context, key string) error {
		switch key {
		case "boom":
			panic("composer exploded")
		case "fail":
			return errors.New("upsert failed")
		}
		return c.job(ctx, key)
	}

	q := New(job, Config{Debounce: 0, Workers: 1}, logger.Discard())
	q.Enqueue("boom")
	q.Enqueue("fail")
	q.Enqueue("ok")
	shutdown(t, q)

	assert.Equal(t, 1, c.get("ok"))
}
