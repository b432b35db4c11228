// Package migrations applies the embedded schema for the SQL store drivers.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedded embed.FS

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// goose keeps its dialect and filesystem in package state
var gooseLock sync.Mutex

// Up applies every pending migration for the dialect
func Up(ctx context.Context, db *sql.DB, dialect Dialect) error {
	dir, err := dirFor(dialect)
	if err != nil {
		return err
	}

	gooseLock.Lock()
	defer gooseLock.Unlock()

	goose.SetBaseFS(embedded)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Version returns the current schema version for the dialect
func Version(ctx context.Context, db *sql.DB, dialect Dialect) (int64, error) {
	if _, err := dirFor(dialect); err != nil {
		return 0, err
	}

	gooseLock.Lock()
	defer gooseLock.Unlock()

	if err := goose.SetDialect(string(dialect)); err != nil {
		return 0, fmt.Errorf("set dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, db)
}

func dirFor(dialect Dialect) (string, error) {
	switch dialect {
	case DialectPostgres:
		return "postgres", nil
	case DialectSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported migration dialect: %s", dialect)
	}
}
