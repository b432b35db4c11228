package auth

import (
	"github.com/jrsteele09/go-session-server/internal/config"
	"github.com/jrsteele09/go-session-server/principals"
	"github.com/jrsteele09/go-session-server/token"
)

// NewRolesFromConfig builds the user and admin role descriptors from the token configuration
func NewRolesFromConfig(cfg config.TokenConfig, codecOptions ...token.CodecOption) (Roles, error) {
	user, err := NewRole(RoleSettings{
		Name:          principals.RoleUser,
		Algorithm:     cfg.GetSigningAlgorithm(),
		AccessSecret:  cfg.GetUserAccessSecret(),
		RefreshSecret: cfg.GetUserRefreshSecret(),
		AccessTTL:     cfg.GetUserAccessTTL(),
		RefreshTTL:    cfg.GetUserRefreshTTL(),
	}, codecOptions...)
	if err != nil {
		return Roles{}, err
	}

	admin, err := NewRole(RoleSettings{
		Name:          principals.RoleAdmin,
		Algorithm:     cfg.GetSigningAlgorithm(),
		AccessSecret:  cfg.GetAdminAccessSecret(),
		RefreshSecret: cfg.GetAdminRefreshSecret(),
		AccessTTL:     cfg.GetAdminAccessTTL(),
		RefreshTTL:    cfg.GetAdminRefreshTTL(),
		ClaimRole:     AdminRoleClaim,
	}, codecOptions...)
	if err != nil {
		return Roles{}, err
	}

	return Roles{User: user, Admin: admin}, nil
}
