package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reelnotes/reelnotes-server/internal/blog"
	"github.com/reelnotes/reelnotes-server/internal/cache"
	"github.com/reelnotes/reelnotes-server/internal/config"
	"github.com/reelnotes/reelnotes-server/internal/domain"
	"github.com/reelnotes/reelnotes-server/internal/metadata/tmdb"
	"github.com/reelnotes/reelnotes-server/internal/search"
	"github.com/reelnotes/reelnotes-server/internal/store/sqlite"
	"github.com/reelnotes/reelnotes-server/internal/validation"
)

// recordingRegen collects enqueued keys instead of running jobs.
type recordingRegen struct {
	mu   sync.Mutex
	keys []domain.PostKey
}

func (r *recordingRegen) Enqueue(key domain.PostKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	return true
}

func (r *recordingRegen) Keys() []domain.PostKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.PostKey(nil), r.keys...)
}

func (r *recordingRegen) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = nil
}

// fakeProvider is an in-memory MetadataProvider.
type fakeProvider struct {
	enabled    bool
	results    []tmdb.SearchResult
	searchErr  error
	details    map[int64]*tmdb.MovieDetails
	detailsErr error
	poster     []byte
	posterErr  error
}

func (f *fakeProvider) Enabled() bool { return f.enabled }

func (f *fakeProvider) SearchMovies(_ context.Context, _ string, _ int) ([]tmdb.SearchResult, error) {
	return f.results, f.searchErr
}

func (f *fakeProvider) GetMovie(_ context.Context, tmdbID int64) (*tmdb.MovieDetails, error) {
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	d, ok := f.details[tmdbID]
	if !ok {
		return nil, tmdb.ErrNotFound
	}
	return d, nil
}

func (f *fakeProvider) FetchPoster(_ context.Context, _ string) ([]byte, error) {
	return f.poster, f.posterErr
}

type testEnv struct {
	store     *sqlite.Store
	search    *SearchService
	regen     *recordingRegen
	provider  *fakeProvider
	validator *validation.Validator
	logger    *slog.Logger

	movies   *MovieService
	taxonomy *TaxonomyService
	curation *CurationService
	blog     *BlogService
	profiles *ProfileService
}

var (
	admin = Actor{UserID: "admin-1", IsAdmin: true}
	alice = Actor{UserID: "user-alice"}
	bob   = Actor{UserID: "user-bob"}
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewSearchIndex(search.Options{DataPath: dir, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	env := &testEnv{
		store:     st,
		search:    NewSearchService(index, st, logger),
		regen:     &recordingRegen{},
		provider:  &fakeProvider{details: map[int64]*tmdb.MovieDetails{}},
		validator: validation.New(),
		logger:    logger,
	}

	env.movies = NewMovieService(st, env.provider, env.search, env.regen, env.validator, time.Second, logger)
	env.taxonomy = NewTaxonomyService(st, cache.NewMemoryBackend(), time.Hour, env.regen, env.validator, logger)
	env.curation = NewCurationService(st, env.regen, env.validator, logger)
	env.blog = NewBlogService(st, env.search, blog.FeedConfig{
		SiteURL:     "https://reelnotes.example",
		Title:       "ReelNotes",
		Description: "Movie notes",
	}, logger)
	env.profiles = NewProfileService(st, config.IdentityConfig{AdminEmails: []string{"admin@example.com"}}, env.regen, env.validator, logger)

	return env
}

func (e *testEnv) seedProfile(t *testing.T, userID, username, fullName string) *domain.Profile {
	t.Helper()
	now := time.Now()
	p := &domain.Profile{
		UserID:    userID,
		Email:     username + "@example.com",
		Username:  username,
		FullName:  fullName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.store.UpsertProfile(context.Background(), p))
	return p
}

func (e *testEnv) seedMovie(t *testing.T, title, releaseDate string) *domain.Movie {
	t.Helper()
	m, err := e.movies.Create(context.Background(), CreateMovieInput{Title: title, ReleaseDate: releaseDate})
	require.NoError(t, err)
	return m
}

func (e *testEnv) seedTag(t *testing.T, name string) *domain.Tag {
	t.Helper()
	tag, err := e.taxonomy.CreateTag(context.Background(), admin, CreateTermInput{Name: name})
	require.NoError(t, err)
	return tag
}

func (e *testEnv) seedCategory(t *testing.T, name string) *domain.Category {
	t.Helper()
	c, err := e.taxonomy.CreateCategory(context.Background(), admin, CreateTermInput{Name: name})
	require.NoError(t, err)
	return c
}

// testPoster returns a small PNG for blurhash encoding.
func testPoster(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 12))
	for y := range 12 {
		for x := range 8 {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 20), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }
