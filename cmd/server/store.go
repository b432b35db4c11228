package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrsteele09/go-session-server/internal/config"
	"github.com/jrsteele09/go-session-server/principals"
	"github.com/jrsteele09/go-session-server/principals/pgrepo"
	"github.com/jrsteele09/go-session-server/principals/redisrepo"
	"github.com/jrsteele09/go-session-server/principals/repofake"
	"github.com/jrsteele09/go-session-server/principals/sqliterepo"
	"github.com/rs/zerolog"
)

// schemaVersioner is implemented by drivers that can report their migration version
type schemaVersioner interface {
	SchemaVersion(ctx context.Context) (int64, error)
}

// openStore connects the configured storage driver. SQL drivers are migrated before use.
func openStore(ctx context.Context, cfg config.StoreConfig) (principals.Store, error) {
	switch cfg.GetStoreDriver() {
	case config.DriverMemory:
		return repofake.NewFakePrincipalRepo(), nil

	case config.DriverRedis:
		r := cfg.GetRedis()
		return redisrepo.Dial(ctx, r.Addr, r.Password, r.DB, redisrepo.WithPrefix(r.Prefix))

	case config.DriverPostgres:
		pg := cfg.GetPostgres()
		return pgrepo.Open(ctx, pgrepo.Config{
			URL:          pg.DSN,
			MaxConns:     pg.MaxConns,
			QueryTimeout: pg.QueryTimeout,
		})

	case config.DriverSQLite:
		path := cfg.GetSQLitePath()
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		return sqliterepo.Open(ctx, path)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.GetStoreDriver())
	}
}

func logSchemaVersion(ctx context.Context, store principals.Store, logger zerolog.Logger) {
	v, ok := store.(schemaVersioner)
	if !ok {
		return
	}
	version, err := v.SchemaVersion(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("could not read schema version")
		return
	}
	logger.Info().Int64("schema_version", version).Msg("schema migrated")
}
