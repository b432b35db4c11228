package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jrsteele09/go-session-server/auth"
	autherrors "github.com/jrsteele09/go-session-server/internal/errors"
	"github.com/jrsteele09/go-session-server/principals"
	"github.com/jrsteele09/go-session-server/principals/repofake"
	"github.com/stretchr/testify/require"
)

func TestIssuer_IssuePersistsPair(t *testing.T) {
	f := setupTestFixture(t)
	p := f.createPrincipal(t, principals.RoleUser, "alice")

	pair, err := f.issuer.Issue(context.Background(), f.roles.User, p)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	require.Equal(t, pair, f.storedPair(t, principals.RoleUser, p.ID))
}

func TestIssuer_ClaimsCarryIdentityAndTTLs(t *testing.T) {
	f := setupTestFixture(t)
	p := f.createPrincipal(t, principals.RoleUser, "alice")

	pair, err := f.issuer.Issue(context.Background(), f.roles.User, p)
	require.NoError(t, err)

	access, err := f.roles.User.Access.Decode(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, p.ID, access.PrincipalID())
	require.Equal(t, "alice", access.Username)
	require.Empty(t, access.Role)
	require.Equal(t, f.clock.Now().Unix(), access.IssuedAtUnix())
	require.Equal(t, f.clock.Now().Add(userAccessTTL).Unix(), access.ExpiresAtUnix())

	refresh, err := f.roles.User.Refresh.Decode(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, p.ID, refresh.PrincipalID())
	require.Equal(t, f.clock.Now().Add(userRefreshTTL).Unix(), refresh.ExpiresAtUnix())

	_, err = f.roles.User.Access.Decode(pair.RefreshToken)
	require.ErrorIs(t, err, autherrors.ErrVerification)
}

func TestIssuer_AdminTokensCarryRoleClaim(t *testing.T) {
	f := setupTestFixture(t)
	p := f.createPrincipal(t, principals.RoleAdmin, "root")

	pair, err := f.issuer.Issue(context.Background(), f.roles.Admin, p)
	require.NoError(t, err)

	access, err := f.roles.Admin.Access.Decode(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, auth.AdminRoleClaim, access.Role)

	refresh, err := f.roles.Admin.Refresh.Decode(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, auth.AdminRoleClaim, refresh.Role)
}

func TestIssuer_ReissueSupersedesPriorPair(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	p := f.createPrincipal(t, principals.RoleUser, "alice")

	first, err := f.issuer.Issue(ctx, f.roles.User, p)
	require.NoError(t, err)
	second, err := f.issuer.Issue(ctx, f.roles.User, p)
	require.NoError(t, err)
	require.NotEqual(t, first.AccessToken, second.AccessToken)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	session, err := f.validator.Validate(ctx, f.roles.User, first.AccessToken)
	require.NoError(t, err)
	require.Equal(t, auth.StateUnauthenticated, session.State)

	session, err = f.validator.Validate(ctx, f.roles.User, second.AccessToken)
	require.NoError(t, err)
	require.Equal(t, auth.StateValid, session.State)
}

func TestIssuer_PersistenceFailureReturnsNoPair(t *testing.T) {
	store := &failingStore{FakePrincipalRepo: repofake.NewFakePrincipalRepo(), setErr: errors.New("disk full")}
	f := setupTestFixtureWithStore(t, store)
	p := f.createPrincipal(t, principals.RoleUser, "alice")

	pair, err := f.issuer.Issue(context.Background(), f.roles.User, p)
	require.ErrorIs(t, err, autherrors.ErrIssuance)
	require.True(t, pair.IsEmpty())
}

func TestIssuer_UnknownPrincipalFails(t *testing.T) {
	f := setupTestFixture(t)

	pair, err := f.issuer.Issue(context.Background(), f.roles.User, &principals.Principal{ID: "ghost", Username: "ghost"})
	require.ErrorIs(t, err, autherrors.ErrIssuance)
	require.ErrorIs(t, err, autherrors.ErrNotFound)
	require.True(t, pair.IsEmpty())
}
