package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/goldenage-community/goldenage-backend/config"
)

// NewConnection opens a PostgreSQL pool through lib/pq ("postgres") or the
// pgx stdlib driver ("pgx"), depending on cfg.Driver.
func NewConnection(cfg *config.DatabaseConfig) (*sql.DB, error) {
	driver := cfg.Driver
	if driver != config.DriverPgx {
		driver = config.DriverPostgres
	}

	db, err := sql.Open(driver, DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(5)

	return db, nil
}

// Migrate creates the snapshot tables if they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
