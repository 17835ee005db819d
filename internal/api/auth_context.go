package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/reelnotes/reelnotes-server/internal/auth"
	domainerrors "github.com/reelnotes/reelnotes-server/internal/errors"
	"github.com/reelnotes/reelnotes-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// principalKey is the context key for the authenticated caller.
const principalKey ctxKey = "principal"

// Principal is the caller resolved from a verified identity token.
type Principal struct {
	UserID  string
	Email   string
	IsAdmin bool
}

// Actor converts the principal for service-layer authorization.
func (p Principal) Actor() service.Actor {
	return service.Actor{UserID: p.UserID, IsAdmin: p.IsAdmin}
}

// GetPrincipal returns the authenticated caller from context.
// Returns 401 error if the request carried no valid token.
func GetPrincipal(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey).(Principal)
	if !ok || p.UserID == "" {
		return Principal{}, huma.Error401Unauthorized("Authentication required")
	}
	return p, nil
}

// GetUserID returns the authenticated user ID from context.
func GetUserID(ctx context.Context) (string, error) {
	p, err := GetPrincipal(ctx)
	return p.UserID, err
}

// RequireAdmin returns the caller if it is an administrator.
func RequireAdmin(ctx context.Context) (Principal, error) {
	p, err := GetPrincipal(ctx)
	if err != nil {
		return p, err
	}
	if !p.IsAdmin {
		return p, domainerrors.Forbidden("admin access required")
	}
	return p, nil
}

func setPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// authMiddleware validates Bearer tokens and stores the resolved principal in
// context. Requests without a valid token continue anonymously; handlers use
// GetPrincipal to require authentication.
func authMiddleware(tokens *auth.TokenService, profiles *service.ProfileService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "Rejected identity token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			profile, err := profiles.Resolve(r.Context(), claims)
			if err != nil {
				logger.ErrorContext(r.Context(), "Failed to resolve profile", "user_id", claims.UserID, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := setPrincipal(r.Context(), Principal{
				UserID:  profile.UserID,
				Email:   profile.Email,
				IsAdmin: profiles.IsAdmin(profile.Email),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
