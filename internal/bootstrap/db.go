package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goldenage-community/goldenage-backend/config"
	"github.com/goldenage-community/goldenage-backend/internal/snapshots/repository"
	"github.com/goldenage-community/goldenage-backend/internal/storage/postgres"
	"github.com/goldenage-community/goldenage-backend/internal/storage/sqlite"
)

type DBOptions struct {
	Config    *config.DatabaseConfig
	MigrateTO time.Duration
}

// OpenDB opens the configured SQL database, applies the snapshot schema and
// reports which dialect the store must speak.
func OpenDB(ctx context.Context, opt DBOptions) (*sql.DB, repository.Dialect, error) {
	if opt.Config == nil {
		return nil, 0, fmt.Errorf("database config is not set")
	}
	if opt.MigrateTO == 0 {
		opt.MigrateTO = 10 * time.Second
	}

	var (
		db      *sql.DB
		dialect repository.Dialect
		migrate func(context.Context, *sql.DB) error
		err     error
	)
	switch opt.Config.Driver {
	case config.DriverSQLite:
		db, err = sqlite.NewConnection(opt.Config.SQLitePath)
		dialect, migrate = repository.DialectSQLite, sqlite.Migrate
	case config.DriverPostgres, config.DriverPgx:
		db, err = postgres.NewConnection(opt.Config)
		dialect, migrate = repository.DialectPostgres, postgres.Migrate
	default:
		return nil, 0, fmt.Errorf("unsupported database driver %q", opt.Config.Driver)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("db connect: %w", err)
	}

	mctx, cancel := context.WithTimeout(ctx, opt.MigrateTO)
	defer cancel()

	if err := migrate(mctx, db); err != nil {
		db.Close()
		return nil, 0, fmt.Errorf("db migrate: %w", err)
	}

	return db, dialect, nil
}
