// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelnotes_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Cache
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelnotes_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelnotes_cache_misses_total",
			Help: "Total number of cache misses, including expired entries",
		},
		[]string{"cache"},
	)

	// Blog regeneration
	BlogRegenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelnotes_blog_regenerations_total",
			Help: "Blog post regeneration jobs by result",
		},
		[]string{"result"}, // "ok", "skipped", "error"
	)

	RegenQueueCoalesced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelnotes_regen_queue_coalesced_total",
			Help: "Regeneration triggers folded into an already pending or running job",
		},
	)

	RegenQueuePending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelnotes_regen_queue_pending",
			Help: "Keys waiting for a regeneration worker",
		},
	)

	BlogPostViews = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelnotes_blog_post_views_total",
			Help: "Public blog post detail views",
		},
	)

	// Metadata provider
	TMDBRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelnotes_tmdb_requests_total",
			Help: "Requests to the movie metadata provider",
		},
		[]string{"endpoint", "result"},
	)

	Enrichments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelnotes_enrichments_total",
			Help: "Movie enrichment attempts by result",
		},
		[]string{"result"}, // "ok", "disabled", "not_found", "error"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelnotes_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordHTTPRequest observes one served request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
