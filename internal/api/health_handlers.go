package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// DocumentCounter is the part of the search index /health inspects.
type DocumentCounter interface {
	DocumentCount() (uint64, error)
}

// ProviderStatus is the part of the metadata client /health inspects.
type ProviderStatus interface {
	Enabled() bool
	BreakerState() string
}

// HealthDeps are the optional components reported by /health.
// Nil members are reported as degraded.
type HealthDeps struct {
	Search   DocumentCounter
	Provider ProviderStatus
}

func (s *Server) registerHealthRoutes() {
	register(s, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// Component statuses.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"database": s.checkDatabase(ctx),
		"search":   s.checkSearchIndex(),
		"metadata": s.checkProvider(),
	}

	overall := statusHealthy
	for name, c := range components {
		switch {
		case c.Status == statusUnhealthy && name != "metadata":
			overall = statusUnhealthy
		case c.Status != statusHealthy && overall == statusHealthy:
			overall = statusDegraded
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkDatabase verifies SQLite answers a ping.
func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{Status: statusDegraded, Message: "database not configured"}
	}

	start := time.Now()
	err := s.store.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  statusUnhealthy,
			Latency: latency.String(),
			Message: "database ping failed",
		}
	}

	return ComponentHealth{Status: statusHealthy, Latency: latency.String()}
}

// checkSearchIndex verifies the Bleve index is accessible.
func (s *Server) checkSearchIndex() ComponentHealth {
	if s.health.Search == nil {
		return ComponentHealth{Status: statusDegraded, Message: "search index not configured"}
	}

	start := time.Now()
	_, err := s.health.Search.DocumentCount()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  statusUnhealthy,
			Latency: latency.String(),
			Message: "search index unreachable",
		}
	}

	return ComponentHealth{Status: statusHealthy, Latency: latency.String()}
}

// checkProvider reports the metadata provider circuit breaker. An open
// breaker only degrades the server: enrichment is best effort.
func (s *Server) checkProvider() ComponentHealth {
	if s.health.Provider == nil || !s.health.Provider.Enabled() {
		return ComponentHealth{Status: statusHealthy, Message: "disabled"}
	}

	switch state := s.health.Provider.BreakerState(); state {
	case "closed":
		return ComponentHealth{Status: statusHealthy}
	case "half-open":
		return ComponentHealth{Status: statusDegraded, Message: "circuit breaker half-open"}
	default:
		return ComponentHealth{Status: statusUnhealthy, Message: "circuit breaker " + state}
	}
}
