// Package repository selects the store backend named in configuration.
package repository

import (
	"context"
	"fmt"

	"github.com/msomdec/messagely/internal/domain"
	"github.com/msomdec/messagely/internal/repository/postgres"
	"github.com/msomdec/messagely/internal/repository/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the backend for driver. dsn is a file path for
// SQLite and a connection URL for Postgres. Migrations are not run.
func Open(ctx context.Context, driver, dsn string) (domain.Store, error) {
	switch driver {
	case DriverSQLite:
		db, err := sqlite.New(dsn)
		if err != nil {
			return nil, err
		}
		return db, nil
	case DriverPostgres:
		db, err := postgres.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
