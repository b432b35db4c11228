package principals

import (
	"strings"
	"time"
)

// RoleType is the principal class a session belongs to
type RoleType string

const (
	RoleUser  RoleType = "user"  // Ordinary account created through signup
	RoleAdmin RoleType = "admin" // Administrator, seeded from configuration
)

// ParseRole converts a string into a RoleType
func ParseRole(s string) (RoleType, bool) {
	switch RoleType(strings.ToLower(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

func (r RoleType) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

func (r RoleType) String() string {
	return string(r)
}

// TokenPair is the access/refresh pair currently bound to a principal.
// Both tokens are always written together; an empty pair means no session.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshAccessToken"`
}

func (p TokenPair) IsEmpty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

type Principal struct {
	ID           string    `json:"id,omitempty"`         // Unique identifier, carried as the token subject
	Role         RoleType  `json:"role,omitempty"`       // Store partition the principal lives in
	Username     string    `json:"username,omitempty"`   // Unique within the role
	PasswordHash string    `json:"-"`                    // bcrypt hash - never serialize
	Tokens       TokenPair `json:"-"`                    // Currently valid pair, empty when signed out
	CreatedAt    time.Time `json:"created_at,omitempty"` // Time the account was created
}

// IsAdmin returns true if the principal lives in the admin partition
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
