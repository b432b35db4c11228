package server

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-session-server/auth"
	"github.com/jrsteele09/go-session-server/internal/config"
	"github.com/rs/zerolog"
)

// BootstrapAdmin seeds the admin account named in configuration. Admins cannot sign up through the API,
// so without a configured username no admin exists. An existing account is left untouched.
func BootstrapAdmin(ctx context.Context, cfg config.BootstrapConfig, authService *auth.Service, logger zerolog.Logger) error {
	username := cfg.GetAdminBootstrapUsername()
	if username == "" {
		logger.Info().Msg("bootstrap: no admin account configured")
		return nil
	}

	created, err := authService.EnsureAdmin(ctx, username, cfg.GetAdminBootstrapPassword())
	if err != nil {
		return fmt.Errorf("[BootstrapAdmin] %w", err)
	}
	if created {
		logger.Info().Str("username", username).Msg("bootstrap: admin account created")
	} else {
		logger.Debug().Str("username", username).Msg("bootstrap: admin account already exists")
	}
	return nil
}
