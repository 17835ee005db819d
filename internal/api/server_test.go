package api

import (
	"context"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/reelnotes/reelnotes-server/internal/auth"
	"github.com/reelnotes/reelnotes-server/internal/blog"
	"github.com/reelnotes/reelnotes-server/internal/cache"
	"github.com/reelnotes/reelnotes-server/internal/config"
	"github.com/reelnotes/reelnotes-server/internal/domain"
	"github.com/reelnotes/reelnotes-server/internal/metadata/tmdb"
	"github.com/reelnotes/reelnotes-server/internal/search"
	"github.com/reelnotes/reelnotes-server/internal/service"
	"github.com/reelnotes/reelnotes-server/internal/store/sqlite"
	"github.com/reelnotes/reelnotes-server/internal/validation"
)

const testKeyHex = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details"`
}

// inlineRegen regenerates posts synchronously so tests observe them at once.
type inlineRegen struct {
	blog *service.BlogService
}

func (r *inlineRegen) Enqueue(key domain.PostKey) bool {
	_ = r.blog.Regenerate(context.Background(), key) //nolint:errcheck // failures are counted in metrics
	return true
}

type testServer struct {
	*Server
	api    humatest.TestAPI
	tokens *auth.TokenService
	db     *sqlite.Store
}

// setupTestServer creates a server backed by a temporary SQLite database and
// search index. The metadata provider is disabled.
func setupTestServer(t *testing.T, opts ...func(*Options)) *testServer {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewSearchIndex(search.Options{DataPath: dir, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	tokens, err := auth.NewTokenService(testKeyHex)
	require.NoError(t, err)

	provider := tmdb.New(tmdb.Config{}, logger)
	validator := validation.New()
	regen := &inlineRegen{}

	searchSvc := service.NewSearchService(index, st, logger)
	blogSvc := service.NewBlogService(st, searchSvc, blog.FeedConfig{
		SiteURL:     "https://reelnotes.example",
		Title:       "ReelNotes",
		Description: "Movie notes",
	}, logger)
	regen.blog = blogSvc

	services := &Services{
		Profile:  service.NewProfileService(st, config.IdentityConfig{AdminEmails: []string{"admin@example.com"}}, regen, validator, logger),
		Movie:    service.NewMovieService(st, provider, searchSvc, regen, validator, time.Second, logger),
		Taxonomy: service.NewTaxonomyService(st, cache.NewMemoryBackend(), time.Hour, regen, validator, logger),
		Curation: service.NewCurationService(st, regen, validator, logger),
		Blog:     blogSvc,
	}

	options := Options{PublicRatePerMinute: 1000, SearchRatePerMinute: 1000}
	for _, o := range opts {
		o(&options)
	}

	s := NewServer(st, services, tokens, HealthDeps{Search: index, Provider: provider}, options, logger)
	t.Cleanup(func() { _ = s.Shutdown() })

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		tokens: tokens,
		db:     st,
	}
}

// bearer issues a token and returns it as a request header argument.
func (ts *testServer) bearer(t *testing.T, userID, email, username string) string {
	t.Helper()
	token, err := ts.tokens.Issue(auth.Identity{UserID: userID, Email: email, Username: username}, time.Hour)
	require.NoError(t, err)
	return "Authorization: Bearer " + token
}

func (ts *testServer) adminAuth(t *testing.T) string {
	return ts.bearer(t, "user-admin", "admin@example.com", "admin")
}

func (ts *testServer) aliceAuth(t *testing.T) string {
	return ts.bearer(t, "user-alice", "alice@example.com", "alice")
}

func (ts *testServer) bobAuth(t *testing.T) string {
	return ts.bearer(t, "user-bob", "bob@example.com", "bob")
}

// raw serves a request through the full router, outside humatest.
func (ts *testServer) raw(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func decodeEnvelope[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), resp.Body.String())
	require.Equal(t, EnvelopeVersion, env.Version)
	return env
}

// createMovie adds a movie through the API and returns it.
func (ts *testServer) createMovie(t *testing.T, authHeader string, body map[string]any) MovieResponse {
	t.Helper()
	resp := ts.api.Post("/api/v1/movies", authHeader, body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decodeEnvelope[MovieResponse](t, resp).Data
}

// createTag adds a tag as admin and returns it.
func (ts *testServer) createTag(t *testing.T, name string) TermResponse {
	t.Helper()
	resp := ts.api.Post("/api/v1/tags", ts.adminAuth(t), map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decodeEnvelope[TermResponse](t, resp).Data
}
