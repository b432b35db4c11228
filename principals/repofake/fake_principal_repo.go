package repofake

import (
	"context"
	"sync"

	"github.com/google/uuid"
	autherrors "github.com/jrsteele09/go-session-server/internal/errors"
	"github.com/jrsteele09/go-session-server/principals"
)

var _ principals.Store = (*FakePrincipalRepo)(nil)

// FakePrincipalRepo is an in-memory store used by tests and the "memory" driver
type FakePrincipalRepo struct {
	principals map[principals.RoleType]map[string]*principals.Principal
	usernames  map[principals.RoleType]map[string]string // username to principal id
	lock       sync.RWMutex
}

func NewFakePrincipalRepo() *FakePrincipalRepo {
	return &FakePrincipalRepo{
		principals: make(map[principals.RoleType]map[string]*principals.Principal),
		usernames:  make(map[principals.RoleType]map[string]string),
	}
}

func (r *FakePrincipalRepo) Create(_ context.Context, p *principals.Principal) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.usernames[p.Role][p.Username]; ok {
		return autherrors.Wrapf(autherrors.ErrConflict, "username %q", p.Username)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if r.principals[p.Role] == nil {
		r.principals[p.Role] = make(map[string]*principals.Principal)
		r.usernames[p.Role] = make(map[string]string)
	}
	stored := *p
	r.principals[p.Role][p.ID] = &stored
	r.usernames[p.Role][p.Username] = p.ID
	return nil
}

func (r *FakePrincipalRepo) GetByID(_ context.Context, role principals.RoleType, id string) (*principals.Principal, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	p, ok := r.principals[role][id]
	if !ok {
		return nil, autherrors.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (r *FakePrincipalRepo) GetByUsername(ctx context.Context, role principals.RoleType, username string) (*principals.Principal, error) {
	r.lock.RLock()
	id, ok := r.usernames[role][username]
	r.lock.RUnlock()

	if !ok {
		return nil, autherrors.ErrNotFound
	}
	return r.GetByID(ctx, role, id)
}

func (r *FakePrincipalRepo) GetTokens(_ context.Context, role principals.RoleType, principalID string) (principals.TokenPair, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	p, ok := r.principals[role][principalID]
	if !ok {
		return principals.TokenPair{}, autherrors.ErrNotFound
	}
	return p.Tokens, nil
}

func (r *FakePrincipalRepo) SetTokens(_ context.Context, role principals.RoleType, principalID string, pair principals.TokenPair) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	p, ok := r.principals[role][principalID]
	if !ok {
		return autherrors.ErrNotFound
	}
	p.Tokens = pair
	return nil
}

func (r *FakePrincipalRepo) Ping(context.Context) error { return nil }

func (r *FakePrincipalRepo) Close() error {
	return nil
}
