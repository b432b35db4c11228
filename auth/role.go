package auth

import (
	"fmt"
	"time"

	"github.com/jrsteele09/go-session-server/principals"
	"github.com/jrsteele09/go-session-server/token"
)

// AdminRoleClaim is the role claim carried by admin tokens
const AdminRoleClaim = "admin"

// Role describes how sessions for one principal class are signed and checked.
// User and admin sessions share one protocol and differ only in their Role.
type Role struct {
	Name       principals.RoleType
	Access     *token.Codec
	Refresh    *token.Codec
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// ClaimRole is stamped into every token of this role and required on rotation. Empty for users.
	ClaimRole string
}

type RoleSettings struct {
	Name          principals.RoleType
	Algorithm     string
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	ClaimRole     string
}

func NewRole(s RoleSettings, codecOptions ...token.CodecOption) (*Role, error) {
	if !s.Name.Valid() {
		return nil, fmt.Errorf("[NewRole] %w: %q", InvalidRoleErr, s.Name)
	}
	if s.AccessSecret == s.RefreshSecret {
		return nil, fmt.Errorf("[NewRole] %s access and refresh secrets must differ", s.Name)
	}
	if s.AccessTTL <= 0 || s.RefreshTTL < s.AccessTTL {
		return nil, fmt.Errorf("[NewRole] %s requires 0 < access ttl <= refresh ttl", s.Name)
	}

	accessSigner, err := token.NewSigner(s.Algorithm, s.AccessSecret)
	if err != nil {
		return nil, fmt.Errorf("[NewRole] %s access signer: %w", s.Name, err)
	}
	refreshSigner, err := token.NewSigner(s.Algorithm, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("[NewRole] %s refresh signer: %w", s.Name, err)
	}

	return &Role{
		Name:       s.Name,
		Access:     token.NewCodec(accessSigner, codecOptions...),
		Refresh:    token.NewCodec(refreshSigner, codecOptions...),
		AccessTTL:  s.AccessTTL,
		RefreshTTL: s.RefreshTTL,
		ClaimRole:  s.ClaimRole,
	}, nil
}

func (r *Role) claimsFor(p *principals.Principal) token.Claims {
	c := token.Claims{
		Username: p.Username,
		Role:     r.ClaimRole,
	}
	c.Subject = p.ID
	return c
}

func (r *Role) hasRequiredClaim(c *token.Claims) bool {
	return r.ClaimRole == "" || (c != nil && c.Role == r.ClaimRole)
}

// Roles holds the descriptor for each principal class
type Roles struct {
	User  *Role
	Admin *Role
}

func (r Roles) For(name principals.RoleType) (*Role, error) {
	switch {
	case name == principals.RoleUser && r.User != nil:
		return r.User, nil
	case name == principals.RoleAdmin && r.Admin != nil:
		return r.Admin, nil
	default:
		return nil, fmt.Errorf("%w: %q", InvalidRoleErr, name)
	}
}

func lockKey(role principals.RoleType, principalID string) string {
	return string(role) + ":" + principalID
}
