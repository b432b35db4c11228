// Package redisrepo stores principals as Redis hashes.
//
// Keys:
//
//	<prefix>:<role>:principal:<id>      hash of the principal and its current token pair
//	<prefix>:<role>:username:<username> principal id
package redisrepo

import (
	"context"
	"errors"
	"strconv"
	"time"

	autherrors "github.com/jrsteele09/go-session-server/internal/errors"
	"github.com/jrsteele09/go-session-server/principals"
	"github.com/redis/go-redis/v9"
)

var _ principals.Store = (*Repo)(nil)

const (
	fieldID           = "id"
	fieldUsername     = "username"
	fieldPasswordHash = "password_hash"
	fieldAccessToken  = "access_token"
	fieldRefreshToken = "refresh_token"
	fieldCreatedAt    = "created_at"
)

type Repo struct {
	rdb    redis.UniversalClient
	prefix string
}

type Option func(*Repo)

// WithPrefix sets the key namespace, defaulting to "sessions"
func WithPrefix(prefix string) Option {
	return func(r *Repo) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

func New(rdb redis.UniversalClient, options ...Option) *Repo {
	r := &Repo{rdb: rdb, prefix: "sessions"}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Dial connects to the Redis server at addr and verifies the connection
func Dial(ctx context.Context, addr, password string, db int, options ...Option) (*Repo, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, autherrors.Wrapf(autherrors.Join(autherrors.ErrPersistence, err), "redis ping")
	}
	return New(rdb, options...), nil
}

func (r *Repo) principalKey(role principals.RoleType, id string) string {
	return r.prefix + ":" + string(role) + ":principal:" + id
}

func (r *Repo) usernameKey(role principals.RoleType, username string) string {
	return r.prefix + ":" + string(role) + ":username:" + username
}

func (r *Repo) Create(ctx context.Context, p *principals.Principal) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	claimed, err := r.rdb.SetNX(ctx, r.usernameKey(p.Role, p.Username), p.ID, 0).Result()
	if err != nil {
		return persistence(err, "username claim")
	}
	if !claimed {
		return autherrors.Wrapf(autherrors.ErrConflict, "username %q", p.Username)
	}

	err = r.rdb.HSet(ctx, r.principalKey(p.Role, p.ID),
		fieldID, p.ID,
		fieldUsername, p.Username,
		fieldPasswordHash, p.PasswordHash,
		fieldAccessToken, "",
		fieldRefreshToken, "",
		fieldCreatedAt, strconv.FormatInt(p.CreatedAt.Unix(), 10),
	).Err()
	if err != nil {
		_ = r.rdb.Del(ctx, r.usernameKey(p.Role, p.Username)).Err()
		return persistence(err, "principal write")
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, role principals.RoleType, id string) (*principals.Principal, error) {
	fields, err := r.rdb.HGetAll(ctx, r.principalKey(role, id)).Result()
	if err != nil {
		return nil, persistence(err, "principal read")
	}
	if len(fields) == 0 {
		return nil, autherrors.ErrNotFound
	}

	p := &principals.Principal{
		ID:           fields[fieldID],
		Role:         role,
		Username:     fields[fieldUsername],
		PasswordHash: fields[fieldPasswordHash],
		Tokens: principals.TokenPair{
			AccessToken:  fields[fieldAccessToken],
			RefreshToken: fields[fieldRefreshToken],
		},
	}
	if created, err := strconv.ParseInt(fields[fieldCreatedAt], 10, 64); err == nil {
		p.CreatedAt = time.Unix(created, 0).UTC()
	}
	return p, nil
}

func (r *Repo) GetByUsername(ctx context.Context, role principals.RoleType, username string) (*principals.Principal, error) {
	id, err := r.rdb.Get(ctx, r.usernameKey(role, username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, autherrors.ErrNotFound
		}
		return nil, persistence(err, "username lookup")
	}
	return r.GetByID(ctx, role, id)
}

func (r *Repo) GetTokens(ctx context.Context, role principals.RoleType, principalID string) (principals.TokenPair, error) {
	values, err := r.rdb.HMGet(ctx, r.principalKey(role, principalID), fieldID, fieldAccessToken, fieldRefreshToken).Result()
	if err != nil {
		return principals.TokenPair{}, persistence(err, "tokens read")
	}
	if len(values) != 3 || values[0] == nil {
		return principals.TokenPair{}, autherrors.ErrNotFound
	}
	access, _ := values[1].(string)
	refresh, _ := values[2].(string)
	return principals.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// SetTokens writes both fields in a single HSET inside MULTI/EXEC. Principals are never
// deleted, so checking existence first keeps a token write from creating a stray hash.
func (r *Repo) SetTokens(ctx context.Context, role principals.RoleType, principalID string, pair principals.TokenPair) error {
	key := r.principalKey(role, principalID)

	exists, err := r.rdb.Exists(ctx, key).Result()
	if err != nil {
		return persistence(err, "tokens write")
	}
	if exists == 0 {
		return autherrors.ErrNotFound
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldAccessToken, pair.AccessToken, fieldRefreshToken, pair.RefreshToken)
		return nil
	})
	if err != nil {
		return persistence(err, "tokens write")
	}
	return nil
}

func (r *Repo) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return persistence(err, "Ping")
	}
	return nil
}

func (r *Repo) Close() error {
	return r.rdb.Close()
}

func persistence(err error, op string) error {
	return autherrors.Wrapf(autherrors.Join(autherrors.ErrPersistence, err), "redis %s", op)
}
