package auth

import (
	"context"

	autherrors "github.com/jrsteele09/go-session-server/internal/errors"
)

// RoleGate admits only valid sessions whose verified claims carry the required role claim.
// The role is never taken from the request itself.
type RoleGate struct {
	validator *Validator
	claimRole string
}

func NewRoleGate(validator *Validator, claimRole string) *RoleGate {
	return &RoleGate{validator: validator, claimRole: claimRole}
}

// Check validates accessToken for role and then enforces the role claim.
// It returns ErrUnauthenticated, ErrTokenExpired, ErrAccessDenied or a store fault.
func (g *RoleGate) Check(ctx context.Context, role *Role, accessToken string) (Session, error) {
	session, err := g.validator.Validate(ctx, role, accessToken)
	if err != nil {
		return session, err
	}
	return session, g.Allow(session)
}

// Allow enforces the gate on an already validated session
func (g *RoleGate) Allow(session Session) error {
	if err := session.Err(); err != nil {
		return err
	}
	if session.Claims == nil || session.Claims.Role != g.claimRole {
		return autherrors.ErrAccessDenied
	}
	return nil
}
