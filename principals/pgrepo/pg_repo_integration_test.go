//go:build integration

package pgrepo_test

import (
	"context"
	"os"
	"testing"

	"github.com/jrsteele09/go-session-server/principals"
	"github.com/jrsteele09/go-session-server/principals/pgrepo"
	"github.com/jrsteele09/go-session-server/principals/storetest"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo(t *testing.T) {
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN not set")
	}

	storetest.Run(t, func(t *testing.T) principals.Store {
		ctx := context.Background()
		repo, err := pgrepo.Open(ctx, pgrepo.Config{URL: dsn})
		require.NoError(t, err)

		db, err := pgrepo.NewDB(ctx, pgrepo.Config{URL: dsn})
		require.NoError(t, err)
		_, err = db.Pool.Exec(ctx, "TRUNCATE principals")
		require.NoError(t, err)
		db.Close()

		t.Cleanup(func() { _ = repo.Close() })
		return repo
	})
}
