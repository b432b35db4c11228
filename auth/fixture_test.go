package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-session-server/auth"
	"github.com/jrsteele09/go-session-server/principals"
	"github.com/jrsteele09/go-session-server/principals/repofake"
	"github.com/jrsteele09/go-session-server/token"
	"github.com/stretchr/testify/require"
)

const (
	userAccessSecret   = "user-access-secret"
	userRefreshSecret  = "user-refresh-secret"
	adminAccessSecret  = "admin-access-secret"
	adminRefreshSecret = "admin-refresh-secret"

	userAccessTTL   = 15 * time.Minute
	userRefreshTTL  = 24 * time.Hour
	adminAccessTTL  = 10 * time.Minute
	adminRefreshTTL = 12 * time.Hour

	testPassword = "correct horse battery staple"
)

// testClock is a settable clock shared by codecs and validators
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testFixture holds all test dependencies
type testFixture struct {
	clock     *testClock
	store     principals.Store
	roles     auth.Roles
	locks     *auth.KeyedMutex
	issuer    *auth.Issuer
	validator *auth.Validator
	rotator   *auth.Rotator
	adminGate *auth.RoleGate
	service   *auth.Service
}

// setupTestFixture creates a new test fixture with all dependencies
func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	return setupTestFixtureWithStore(t, repofake.NewFakePrincipalRepo())
}

func setupTestFixtureWithStore(t *testing.T, store principals.Store) *testFixture {
	t.Helper()

	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	roles := newTestRoles(t, clock)
	locks := auth.NewKeyedMutex()
	opts := []auth.Option{auth.WithNowFunc(clock.Now), auth.WithLocks(locks)}

	issuer := auth.NewIssuer(store, opts...)
	validator := auth.NewValidator(store, opts...)
	service, err := auth.NewService(store, roles, opts...)
	require.NoError(t, err)

	return &testFixture{
		clock:     clock,
		store:     store,
		roles:     roles,
		locks:     locks,
		issuer:    issuer,
		validator: validator,
		rotator:   auth.NewRotator(store, issuer, opts...),
		adminGate: auth.NewRoleGate(validator, auth.AdminRoleClaim),
		service:   service,
	}
}

func newTestRoles(t *testing.T, clock *testClock) auth.Roles {
	t.Helper()

	user, err := auth.NewRole(auth.RoleSettings{
		Name:          principals.RoleUser,
		Algorithm:     token.AlgorithmHS256,
		AccessSecret:  userAccessSecret,
		RefreshSecret: userRefreshSecret,
		AccessTTL:     userAccessTTL,
		RefreshTTL:    userRefreshTTL,
	}, token.WithCodecNowFunc(clock.Now))
	require.NoError(t, err)

	admin, err := auth.NewRole(auth.RoleSettings{
		Name:          principals.RoleAdmin,
		Algorithm:     token.AlgorithmHS256,
		AccessSecret:  adminAccessSecret,
		RefreshSecret: adminRefreshSecret,
		AccessTTL:     adminAccessTTL,
		RefreshTTL:    adminRefreshTTL,
		ClaimRole:     auth.AdminRoleClaim,
	}, token.WithCodecNowFunc(clock.Now))
	require.NoError(t, err)

	return auth.Roles{User: user, Admin: admin}
}

// createPrincipal stores an account directly, bypassing password hashing
func (f *testFixture) createPrincipal(t *testing.T, role principals.RoleType, username string) *principals.Principal {
	t.Helper()
	p := &principals.Principal{Role: role, Username: username, PasswordHash: "unused"}
	require.NoError(t, f.store.Create(context.Background(), p))
	return p
}

func (f *testFixture) storedPair(t *testing.T, role principals.RoleType, id string) principals.TokenPair {
	t.Helper()
	pair, err := f.store.GetTokens(context.Background(), role, id)
	require.NoError(t, err)
	return pair
}

// failingStore wraps the fake store and fails token writes
type failingStore struct {
	*repofake.FakePrincipalRepo
	setErr error
	getErr error
}

func (s *failingStore) SetTokens(ctx context.Context, role principals.RoleType, id string, pair principals.TokenPair) error {
	if s.setErr != nil {
		return s.setErr
	}
	return s.FakePrincipalRepo.SetTokens(ctx, role, id, pair)
}

func (s *failingStore) GetTokens(ctx context.Context, role principals.RoleType, id string) (principals.TokenPair, error) {
	if s.getErr != nil {
		return principals.TokenPair{}, s.getErr
	}
	return s.FakePrincipalRepo.GetTokens(ctx, role, id)
}

// mirrorStore answers every token read with the pair stored for one fixed principal
type mirrorStore struct {
	*repofake.FakePrincipalRepo
	sourceID string
}

func (s *mirrorStore) GetTokens(ctx context.Context, role principals.RoleType, _ string) (principals.TokenPair, error) {
	return s.FakePrincipalRepo.GetTokens(ctx, role, s.sourceID)
}

func subject(id string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Subject: id}
}
