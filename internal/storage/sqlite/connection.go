// Package sqlite opens the embedded single-node store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=10000",
	"PRAGMA synchronous=NORMAL",
}

// NewConnection opens path and applies the standard pragmas.
func NewConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single writer avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

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

var schema = []string{
	`CREATE TABLE IF NOT EXISTS pool_hours (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		payload      TEXT NOT NULL,
		last_updated TEXT NOT NULL,
		created_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pool_hours_last_updated ON pool_hours (last_updated, id)`,
	`CREATE TABLE IF NOT EXISTS restaurant_hours (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		payload      TEXT NOT NULL,
		last_updated TEXT NOT NULL,
		created_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_restaurant_hours_last_updated ON restaurant_hours (last_updated, id)`,
	`CREATE TABLE IF NOT EXISTS restaurant_menus (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		menu_date    TEXT NOT NULL UNIQUE,
		payload      TEXT NOT NULL,
		last_updated TEXT NOT NULL,
		created_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	)`,
}
