package api

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/reelnotes/reelnotes-server/internal/ratelimit"
)

// RateLimiter limits requests per key.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter allows perMinute requests per key with the given burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return ratelimit.New(ratelimit.PerMinute(perMinute), burst)
}

// ipRateLimit returns a huma middleware limiting an operation per client IP.
// Returns 429 Too Many Requests when the limit is exceeded.
func (s *Server) ipRateLimit(limiter *RateLimiter) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		key := clientIP(ctx.Header("X-Forwarded-For"), ctx.Header("X-Real-IP"), ctx.RemoteAddr())

		if !limiter.Allow(key) {
			s.logger.Warn("Rate limit exceeded",
				"ip", key,
				"path", ctx.URL().Path,
			)
			_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "Too many requests. Please try again later.") //nolint:errcheck // response already committed
			return
		}

		next(ctx)
	}
}

// clientIP picks the client address, preferring proxy headers.
func clientIP(forwardedFor, realIP, remoteAddr string) string {
	// First entry in the chain is the client.
	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		return strings.TrimSpace(first)
	}

	if realIP != "" {
		return realIP
	}

	// Strip the port.
	if i := strings.LastIndexByte(remoteAddr, ':'); i >= 0 {
		return remoteAddr[:i]
	}
	return remoteAddr
}
