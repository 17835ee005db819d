// Package api exposes the ReelNotes HTTP surface: a huma OpenAPI API mounted
// on a chi router, plus /metrics.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reelnotes/reelnotes-server/internal/auth"
	"github.com/reelnotes/reelnotes-server/internal/http/response"
	"github.com/reelnotes/reelnotes-server/internal/store"
)

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins         []string
	PublicRatePerMinute int
	SearchRatePerMinute int
}

// Server is the HTTP API server.
type Server struct {
	store    store.Store
	services *Services
	tokens   *auth.TokenService
	health   HealthDeps
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger

	publicLimiter *RateLimiter // per IP, public post reads
	searchLimiter *RateLimiter // per user, movie search
}

// NewServer creates a new API server instance.
func NewServer(
	st store.Store,
	services *Services,
	tokens *auth.TokenService,
	health HealthDeps,
	opts Options,
	logger *slog.Logger,
) *Server {
	if opts.PublicRatePerMinute <= 0 {
		opts.PublicRatePerMinute = 120
	}
	if opts.SearchRatePerMinute <= 0 {
		opts.SearchRatePerMinute = SearchRatePerMinute
	}

	s := &Server{
		store:         st,
		services:      services,
		tokens:        tokens,
		health:        health,
		router:        chi.NewRouter(),
		logger:        logger,
		publicLimiter: NewRateLimiter(opts.PublicRatePerMinute, max(opts.PublicRatePerMinute/4, 1)),
		searchLimiter: NewRateLimiter(opts.SearchRatePerMinute, max(opts.SearchRatePerMinute/3, 1)),
	}

	s.setupMiddleware(opts)
	s.setupAPI()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Shutdown stops the background sweepers of the rate limiters.
func (s *Server) Shutdown() error {
	s.publicLimiter.Stop()
	s.searchLimiter.Stop()
	return nil
}

func (s *Server) setupMiddleware(opts Options) {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(recoverer(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))
	s.router.Use(middleware.Compress(5))
	s.router.Use(authMiddleware(s.tokens, s.services.Profile, s.logger))

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, s.logger)
	})
}

func (s *Server) setupAPI() {
	humaConfig := huma.DefaultConfig("ReelNotes API", "1.0.0")
	humaConfig.Info.Description = "Movie catalog with personal curation and generated blog posts."
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())

	s.registerHealthRoutes()
	s.registerProfileRoutes()
	s.registerMovieRoutes()
	s.registerTaxonomyRoutes()
	s.registerCurationRoutes()
	s.registerBlogRoutes()
	s.registerAdminRoutes()
}
