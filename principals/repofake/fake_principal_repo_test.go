package repofake_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-session-server/principals"
	"github.com/jrsteele09/go-session-server/principals/repofake"
	"github.com/jrsteele09/go-session-server/principals/storetest"
	"github.com/stretchr/testify/require"
)

func TestFakePrincipalRepo(t *testing.T) {
	storetest.Run(t, func(t *testing.T) principals.Store {
		return repofake.NewFakePrincipalRepo()
	})
}

func TestFakePrincipalRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := repofake.NewFakePrincipalRepo()
	p := &principals.Principal{Role: principals.RoleUser, Username: "alice"}
	require.NoError(t, repo.Create(ctx, p))
	require.NotEmpty(t, p.ID)

	got, err := repo.GetByID(ctx, principals.RoleUser, p.ID)
	require.NoError(t, err)
	got.Username = "mallory"
	got.Tokens.AccessToken = "forged"

	again, err := repo.GetByID(ctx, principals.RoleUser, p.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", again.Username)
	require.Empty(t, again.Tokens.AccessToken)
}
