// Package sqliterepo stores principals in a SQLite database using the pure-Go modernc driver.
package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	autherrors "github.com/jrsteele09/go-session-server/internal/errors"
	"github.com/jrsteele09/go-session-server/internal/migrations"
	"github.com/jrsteele09/go-session-server/principals"
	_ "modernc.org/sqlite"
)

var _ principals.Store = (*Repo)(nil)

const (
	qInsert = `
INSERT INTO principals (id, role, username, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?);`

	qByID = `
SELECT id, role, username, password_hash, COALESCE(access_token, ''), COALESCE(refresh_token, ''), created_at
FROM principals
WHERE role = ? AND id = ?;`

	qByUsername = `
SELECT id, role, username, password_hash, COALESCE(access_token, ''), COALESCE(refresh_token, ''), created_at
FROM principals
WHERE role = ? AND username = ?;`

	qTokens = `
SELECT COALESCE(access_token, ''), COALESCE(refresh_token, '')
FROM principals
WHERE role = ? AND id = ?;`

	qSetTokens = `
UPDATE principals
SET access_token  = NULLIF(?, ''),
    refresh_token = NULLIF(?, ''),
    updated_at    = ?
WHERE role = ? AND id = ?;`
)

type Repo struct {
	db *sql.DB
}

// Open opens the database at path, or an in-memory database for ":memory:", and applies migrations
func Open(ctx context.Context, path string) (*Repo, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := migrations.Up(ctx, db, migrations.DialectSQLite); err != nil {
		db.Close()
		return nil, err
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Create(ctx context.Context, p *principals.Principal) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	now := time.Now().UTC().Unix()
	_, err := r.db.ExecContext(ctx, qInsert, p.ID, string(p.Role), p.Username, p.PasswordHash, p.CreatedAt.Unix(), now)
	if err != nil {
		if isUniqueViolation(err) {
			return autherrors.Wrapf(autherrors.ErrConflict, "username %q", p.Username)
		}
		return autherrors.Wrapf(autherrors.Join(autherrors.ErrPersistence, err), "principal insert")
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, role principals.RoleType, id string) (*principals.Principal, error) {
	return scanPrincipal(r.db.QueryRowContext(ctx, qByID, string(role), id))
}

func (r *Repo) GetByUsername(ctx context.Context, role principals.RoleType, username string) (*principals.Principal, error) {
	return scanPrincipal(r.db.QueryRowContext(ctx, qByUsername, string(role), username))
}

func (r *Repo) GetTokens(ctx context.Context, role principals.RoleType, principalID string) (principals.TokenPair, error) {
	var pair principals.TokenPair
	err := r.db.QueryRowContext(ctx, qTokens, string(role), principalID).Scan(&pair.AccessToken, &pair.RefreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return principals.TokenPair{}, autherrors.ErrNotFound
		}
		return principals.TokenPair{}, autherrors.Wrapf(autherrors.Join(autherrors.ErrPersistence, err), "tokens select")
	}
	return pair, nil
}

// SetTokens writes both tokens in one UPDATE statement
func (r *Repo) SetTokens(ctx context.Context, role principals.RoleType, principalID string, pair principals.TokenPair) error {
	res, err := r.db.ExecContext(ctx, qSetTokens, pair.AccessToken, pair.RefreshToken, time.Now().UTC().Unix(), string(role), principalID)
	if err != nil {
		return autherrors.Wrapf(autherrors.Join(autherrors.ErrPersistence, err), "tokens update")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return autherrors.Wrapf(autherrors.Join(autherrors.ErrPersistence, err), "tokens update")
	}
	if n == 0 {
		return autherrors.ErrNotFound
	}
	return nil
}

func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return autherrors.Wrapf(autherrors.Join(autherrors.ErrPersistence, err), "sqlite Ping")
	}
	return nil
}

// SchemaVersion reports the applied migration version
func (r *Repo) SchemaVersion(ctx context.Context) (int64, error) {
	return migrations.Version(ctx, r.db, migrations.DialectSQLite)
}

func (r *Repo) Close() error {
	return r.db.Close()
}

func scanPrincipal(row *sql.Row) (*principals.Principal, error) {
	var (
		p       principals.Principal
		role    string
		created int64
	)
	if err := row.Scan(&p.ID, &role, &p.Username, &p.PasswordHash, &p.Tokens.AccessToken, &p.Tokens.RefreshToken, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, autherrors.ErrNotFound
		}
		return nil, autherrors.Wrapf(autherrors.Join(autherrors.ErrPersistence, err), "scan principal")
	}
	p.Role = principals.RoleType(role)
	p.CreatedAt = time.Unix(created, 0).UTC()
	return &p, nil
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "constraint failed: UNIQUE")
}
