package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried inside every access and refresh token.
// The registered subject holds the principal ID; the registered ID (jti)
// makes every issued token string unique, even when two tokens for the same
// principal are minted within the same second.
type Claims struct {
	Username string `json:"username"`       // Principal's unique username
	Role     string `json:"role,omitempty"` // Only set on admin tokens
	jwt.RegisteredClaims
}

// PrincipalID returns the identifier of the principal the token was issued to
func (c *Claims) PrincipalID() string {
	if c == nil {
		return ""
	}
	return c.Subject
}

// IssuedAtUnix returns the iat claim in seconds since epoch, or 0 when absent
func (c *Claims) IssuedAtUnix() int64 {
	if c == nil || c.IssuedAt == nil {
		return 0
	}
	return c.IssuedAt.Unix()
}

// ExpiresAtUnix returns the exp claim in seconds since epoch, or 0 when absent
func (c *Claims) ExpiresAtUnix() int64 {
	if c == nil || c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Unix()
}
