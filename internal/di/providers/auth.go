package providers

import (
	"github.com/samber/do/v2"

	"github.com/reelnotes/reelnotes-server/internal/auth"
	"github.com/reelnotes/reelnotes-server/internal/config"
	"github.com/reelnotes/reelnotes-server/internal/logger"
)

// ProvideTokenService provides the PASETO token verifier.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	tokens, err := auth.NewTokenService(cfg.Identity.TokenKey)
	if err != nil {
		return nil, err
	}

	log.Info("Token verification ready", "admins", len(cfg.Identity.AdminEmails))
	return tokens, nil
}
