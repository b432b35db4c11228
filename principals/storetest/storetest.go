// Package storetest holds the behaviour every principals.Store driver must share.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	autherrors "github.com/jrsteele09/go-session-server/internal/errors"
	"github.com/jrsteele09/go-session-server/principals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a store created by newStore. Each subtest gets a fresh store.
func Run(t *testing.T, newStore func(t *testing.T) principals.Store) {
	t.Helper()

	t.Run("CreateAndGet", func(t *testing.T) { testCreateAndGet(t, newStore(t)) })
	t.Run("DuplicateUsername", func(t *testing.T) { testDuplicateUsername(t, newStore(t)) })
	t.Run("RolePartitions", func(t *testing.T) { testRolePartitions(t, newStore(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, newStore(t)) })
	t.Run("TokensRoundTrip", func(t *testing.T) { testTokens(t, newStore(t)) })
	t.Run("ConcurrentPairWrites", func(t *testing.T) { testConcurrentPairWrites(t, newStore(t)) })
	t.Run("Ping", func(t *testing.T) { require.NoError(t, newStore(t).Ping(context.Background())) })
}

func newPrincipal(role principals.RoleType, username string) *principals.Principal {
	return &principals.Principal{
		ID:           uuid.New().String(),
		Role:         role,
		Username:     username,
		PasswordHash: "$2a$10$hash-" + username,
	}
}

func testCreateAndGet(t *testing.T, store principals.Store) {
	ctx := context.Background()
	p := newPrincipal(principals.RoleUser, "alice")
	require.NoError(t, store.Create(ctx, p))

	byID, err := store.GetByID(ctx, principals.RoleUser, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, byID.ID)
	require.Equal(t, principals.RoleUser, byID.Role)
	require.Equal(t, "alice", byID.Username)
	require.Equal(t, p.PasswordHash, byID.PasswordHash)
	require.True(t, byID.Tokens.IsEmpty())

	byName, err := store.GetByUsername(ctx, principals.RoleUser, "alice")
	require.NoError(t, err)
	require.Equal(t, p.ID, byName.ID)
}

func testDuplicateUsername(t *testing.T, store principals.Store) {
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, newPrincipal(principals.RoleUser, "alice")))

	err := store.Create(ctx, newPrincipal(principals.RoleUser, "alice"))
	require.ErrorIs(t, err, autherrors.ErrConflict)
}

func testRolePartitions(t *testing.T, store principals.Store) {
	ctx := context.Background()
	user := newPrincipal(principals.RoleUser, "root")
	admin := newPrincipal(principals.RoleAdmin, "root")
	require.NoError(t, store.Create(ctx, user))
	require.NoError(t, store.Create(ctx, admin))

	_, err := store.GetByID(ctx, principals.RoleAdmin, user.ID)
	require.ErrorIs(t, err, autherrors.ErrNotFound)

	got, err := store.GetByUsername(ctx, principals.RoleAdmin, "root")
	require.NoError(t, err)
	require.Equal(t, admin.ID, got.ID)

	require.NoError(t, store.SetTokens(ctx, principals.RoleUser, user.ID, principals.TokenPair{AccessToken: "ua", RefreshToken: "ur"}))
	adminPair, err := store.GetTokens(ctx, principals.RoleAdmin, admin.ID)
	require.NoError(t, err)
	require.True(t, adminPair.IsEmpty())
}

func testNotFound(t *testing.T, store principals.Store) {
	ctx := context.Background()

	_, err := store.GetByID(ctx, principals.RoleUser, "missing")
	require.ErrorIs(t, err, autherrors.ErrNotFound)

	_, err = store.GetByUsername(ctx, principals.RoleUser, "missing")
	require.ErrorIs(t, err, autherrors.ErrNotFound)

	_, err = store.GetTokens(ctx, principals.RoleUser, "missing")
	require.ErrorIs(t, err, autherrors.ErrNotFound)

	err = store.SetTokens(ctx, principals.RoleUser, "missing", principals.TokenPair{AccessToken: "a", RefreshToken: "r"})
	require.ErrorIs(t, err, autherrors.ErrNotFound)
}

func testTokens(t *testing.T, store principals.Store) {
	ctx := context.Background()
	p := newPrincipal(principals.RoleUser, "bob")
	require.NoError(t, store.Create(ctx, p))

	pair, err := store.GetTokens(ctx, principals.RoleUser, p.ID)
	require.NoError(t, err)
	require.True(t, pair.IsEmpty())

	first := principals.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}
	require.NoError(t, store.SetTokens(ctx, principals.RoleUser, p.ID, first))
	pair, err = store.GetTokens(ctx, principals.RoleUser, p.ID)
	require.NoError(t, err)
	require.Equal(t, first, pair)

	second := principals.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}
	require.NoError(t, store.SetTokens(ctx, principals.RoleUser, p.ID, second))
	pair, err = store.GetTokens(ctx, principals.RoleUser, p.ID)
	require.NoError(t, err)
	require.Equal(t, second, pair)

	got, err := store.GetByID(ctx, principals.RoleUser, p.ID)
	require.NoError(t, err)
	require.Equal(t, second, got.Tokens)

	require.NoError(t, store.SetTokens(ctx, principals.RoleUser, p.ID, principals.TokenPair{}))
	pair, err = store.GetTokens(ctx, principals.RoleUser, p.ID)
	require.NoError(t, err)
	require.True(t, pair.IsEmpty())
}

// Concurrent writers must never leave an access token from one pair next to the refresh token of another.
func testConcurrentPairWrites(t *testing.T, store principals.Store) {
	ctx := context.Background()
	p := newPrincipal(principals.RoleUser, "carol")
	require.NoError(t, store.Create(ctx, p))

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pair := principals.TokenPair{
				AccessToken:  fmt.Sprintf("access-%d", i),
				RefreshToken: fmt.Sprintf("refresh-%d", i),
			}
			assert.NoError(t, store.SetTokens(ctx, principals.RoleUser, p.ID, pair))
		}(i)
	}
	wg.Wait()

	pair, err := store.GetTokens(ctx, principals.RoleUser, p.ID)
	require.NoError(t, err)
	var n int
	_, err = fmt.Sscanf(pair.AccessToken, "access-%d", &n)
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("refresh-%d", n), pair.RefreshToken)
}
