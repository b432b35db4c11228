// Package pgrepo stores principals in PostgreSQL through a pgx connection pool.
package pgrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	autherrors "github.com/jrsteele09/go-session-server/internal/errors"
	"github.com/jrsteele09/go-session-server/principals"
)

var _ principals.Store = (*Repo)(nil)

const (
	qInsert = `
INSERT INTO principals (id, role, username, password_hash, created_at)
VALUES ($1, $2, $3, $4, $5);`

	qByID = `
SELECT id, role, username, password_hash, COALESCE(access_token, ''), COALESCE(refresh_token, ''), created_at
FROM principals
WHERE role = $1 AND id = $2;`

	qByUsername = `
SELECT id, role, username, password_hash, COALESCE(access_token, ''), COALESCE(refresh_token, ''), created_at
FROM principals
WHERE role = $1 AND username = $2;`

	qTokens = `
SELECT COALESCE(access_token, ''), COALESCE(refresh_token, '')
FROM principals
WHERE role = $1 AND id = $2;`

	qSetTokens = `
UPDATE principals
SET access_token  = NULLIF($3, ''),
    refresh_token = NULLIF($4, ''),
    updated_at    = NOW()
WHERE role = $1 AND id = $2;`
)

type Repo struct {
	db *DB
}

func New(db *DB) *Repo { return &Repo{db: db} }

// Open connects to PostgreSQL, applies migrations and returns the store
func Open(ctx context.Context, cfg Config) (*Repo, error) {
	if err := Migrate(ctx, cfg.URL); err != nil {
		return nil, err
	}
	db, err := NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

func (r *Repo) Create(ctx context.Context, p *principals.Principal) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.Pool.Exec(ctx, qInsert, p.ID, string(p.Role), p.Username, p.PasswordHash, p.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return autherrors.Wrapf(autherrors.ErrConflict, "username %q", p.Username)
		}
		return persistence(err, "principal insert")
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, role principals.RoleType, id string) (*principals.Principal, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	return scanPrincipal(r.db.Pool.QueryRow(ctx, qByID, string(role), id))
}

func (r *Repo) GetByUsername(ctx context.Context, role principals.RoleType, username string) (*principals.Principal, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	return scanPrincipal(r.db.Pool.QueryRow(ctx, qByUsername, string(role), username))
}

func (r *Repo) GetTokens(ctx context.Context, role principals.RoleType, principalID string) (principals.TokenPair, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var pair principals.TokenPair
	if err := r.db.Pool.QueryRow(ctx, qTokens, string(role), principalID).Scan(&pair.AccessToken, &pair.RefreshToken); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return principals.TokenPair{}, autherrors.ErrNotFound
		}
		return principals.TokenPair{}, persistence(err, "tokens select")
	}
	return pair, nil
}

// SetTokens writes both tokens in one UPDATE statement
func (r *Repo) SetTokens(ctx context.Context, role principals.RoleType, principalID string, pair principals.TokenPair) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Pool.Exec(ctx, qSetTokens, string(role), principalID, pair.AccessToken, pair.RefreshToken)
	if err != nil {
		return persistence(err, "tokens update")
	}
	if tag.RowsAffected() == 0 {
		return autherrors.ErrNotFound
	}
	return nil
}

func (r *Repo) Ping(ctx context.Context) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()
	if err := r.db.Pool.Ping(ctx); err != nil {
		return persistence(err, "Ping")
	}
	return nil
}

func (r *Repo) Close() error {
	r.db.Close()
	return nil
}

func scanPrincipal(row pgx.Row) (*principals.Principal, error) {
	var (
		p       principals.Principal
		role    string
		created time.Time
	)
	if err := row.Scan(&p.ID, &role, &p.Username, &p.PasswordHash, &p.Tokens.AccessToken, &p.Tokens.RefreshToken, &created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, autherrors.ErrNotFound
		}
		return nil, persistence(err, "scan principal")
	}
	p.Role = principals.RoleType(role)
	p.CreatedAt = created.UTC()
	return &p, nil
}

func persistence(err error, op string) error {
	return autherrors.Wrapf(autherrors.Join(autherrors.ErrPersistence, err), "postgres %s", op)
}
