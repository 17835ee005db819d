package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable clock for expiry tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type tagList struct {
	Names []string `json:"names"`
}

// failingBackend errors on every call.
type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("backend down")
}

func (failingBackend) Set(context.Context, string, []byte, time.Time) error {
	return errors.New("backend down")
}

func (failingBackend) Delete(context.Context, string) error {
	return errors.New("backend down")
}

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	b, err := OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"badger": b,
	}
}

func TestCache_SetGet(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c := New[tagList]("test", backend, WithClock(newFakeClock()))

			require.NoError(t, c.Set(ctx, "taxonomy:tags", tagList{Names: []string{"Twist", "Heist"}}, time.Hour))

			got, ok := c.Get(ctx, "taxonomy:tags")
			require.True(t, ok)
			assert.Equal(t, []string{"Twist", "Heist"}, got.Names)
		})
	}
}

func TestCache_Miss(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := New[tagList]("test", backend)

			got, ok := c.Get(context.Background(), "absent")
			assert.False(t, ok)
			assert.Nil(t, got.Names)
		})
	}
}

func TestCache_ExpiresByInjectedClock(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clock := newFakeClock()
			c := New[string]("test", backend, WithClock(clock))

			require.NoError(t, c.Set(ctx, "k", "v", 24*time.Hour))

			clock.Advance(24*time.Hour - time.Second)
			got, ok := c.Get(ctx, "k")
			require.True(t, ok, "entry should live until its ttl")
			assert.Equal(t, "v", got)

			clock.Advance(time.Second)
			_, ok = c.Get(ctx, "k")
			assert.False(t, ok, "entry should expire exactly at its ttl")

			// The expired entry is dropped from the backend.
			_, found, err := backend.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestCache_Invalidate(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c := New[int]("test", backend)

			require.NoError(t, c.Set(ctx, "n", 42, time.Minute))
			require.NoError(t, c.Invalidate(ctx, "n"))

			_, ok := c.Get(ctx, "n")
			assert.False(t, ok)

			// Invalidating a missing key is fine.
			assert.NoError(t, c.Invalidate(ctx, "n"))
		})
	}
}

func TestCache_RejectsNonPositiveTTL(t *testing.T) {
	c := New[int]("test", NewMemoryBackend())

	assert.Error(t, c.Set(context.Background(), "n", 1, 0))
	assert.Error(t, c.Set(context.Background(), "n", 1, -time.Second))
}

func TestCache_BackendErrorsAreMisses(t *testing.T) {
	c := New[int]("test", failingBackend{})
	ctx := context.Background()

	_, ok := c.Get(ctx, "n")
	assert.False(t, ok)
	assert.Error(t, c.Set(ctx, "n", 1, time.Minute))
	assert.Error(t, c.Invalidate(ctx, "n"))
}

func TestCache_CorruptPayloadIsDropped(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, "k", []byte("{not json"), time.Time{}))

	c := New[string]("test", backend)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Zero(t, backend.Len())
}

func TestMemoryBackend_CopiesValues(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	in := []byte("abc")
	require.NoError(t, b.Set(ctx, "k", in, time.Time{}))
	in[0] = 'z'

	out, found, err := b.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "abc", string(out))
}

func TestBadgerBackend_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b, err := OpenBadger(dir)
	require.NoError(t, err)
	require.NoError(t, b.Set(ctx, "k", []byte("v"), time.Now().Add(time.Hour)))
	require.NoError(t, b.Close())

	reopened, err := OpenBadger(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, found, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "v", string(got))
}
