package principals

import "context"

// Repo stores principal accounts partitioned by role
type Repo interface {
	// Create inserts a new principal. A username already taken within the role returns ErrConflict.
	Create(ctx context.Context, p *Principal) error
	GetByID(ctx context.Context, role RoleType, id string) (*Principal, error)
	GetByUsername(ctx context.Context, role RoleType, username string) (*Principal, error)
}

// AuthorizationStore reads and writes the single currently valid token pair of a principal.
// SetTokens must replace both tokens in one atomic write so no reader observes a half-written pair.
type AuthorizationStore interface {
	// GetTokens returns the stored pair, or ErrNotFound when the principal does not exist.
	// A principal that has never signed in, or has signed out, returns an empty pair.
	GetTokens(ctx context.Context, role RoleType, principalID string) (TokenPair, error)
	// SetTokens overwrites the stored pair. Unknown principals return ErrNotFound.
	SetTokens(ctx context.Context, role RoleType, principalID string, pair TokenPair) error
}

// Store is implemented by every storage driver
type Store interface {
	Repo
	AuthorizationStore
	// Ping reports whether the backing storage is reachable
	Ping(ctx context.Context) error
	Close() error
}
