// Package snapshots stores documents as immutable, timestamped versions.
//
// Pool hours and restaurant hours are append-only: every update inserts a
// new row and the current state is the row with the greatest lastUpdated.
// Menus are the exception and are keyed by calendar date.
package snapshots

import (
	"context"
	"errors"
	"time"
)

// Table names a logical snapshot table.
type Table string

const (
	TablePoolHours       Table = "pool_hours"
	TableRestaurantHours Table = "restaurant_hours"
	TableRestaurantMenus Table = "restaurant_menus"
)

// Tables lists every known table.
var Tables = []Table{TablePoolHours, TableRestaurantHours, TableRestaurantMenus}

// Valid reports whether t is a known table.
func (t Table) Valid() bool {
	for _, known := range Tables {
		if t == known {
			return true
		}
	}
	return false
}

// DateKeyed reports whether rows are keyed by calendar date.
func (t Table) DateKeyed() bool {
	return t == TableRestaurantMenus
}

var (
	ErrNotFound     = errors.New("snapshot not found")
	ErrUnknownTable = errors.New("unknown snapshot table")
	ErrNotDateKeyed = errors.New("snapshot table is not keyed by date")
	ErrDateKeyed    = errors.New("snapshot table is keyed by date")
	ErrInvalidKeep  = errors.New("retention must keep at least one snapshot")
)

// Snapshot is one stored version of a document.
type Snapshot struct {
	ID          int64     `json:"id"`
	Table       Table     `json:"table"`
	Date        string    `json:"date,omitempty"`
	Payload     string    `json:"-"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Store is the persistence boundary for snapshots.
type Store interface {
	// GetLatest returns the row with the greatest lastUpdated, ErrNotFound
	// when the table is empty.
	GetLatest(ctx context.Context, table Table) (*Snapshot, error)
	GetByID(ctx context.Context, table Table, id int64) (*Snapshot, error)
	GetByDate(ctx context.Context, table Table, date string) (*Snapshot, error)
	// ListByDateRange returns rows with from <= date <= to, oldest date first.
	ListByDateRange(ctx context.Context, table Table, from, to string) ([]Snapshot, error)
	// History returns up to limit rows, newest first.
	History(ctx context.Context, table Table, limit int) ([]Snapshot, error)

	// Insert always creates a new row.
	Insert(ctx context.Context, table Table, payload string, at time.Time) (*Snapshot, error)
	// UpsertByDate replaces the row for date in place or creates it, and
	// reports whether it was created.
	UpsertByDate(ctx context.Context, table Table, date, payload string, at time.Time) (*Snapshot, bool, error)

	// Prune deletes all but the newest keep rows of an append-only table.
	Prune(ctx context.Context, table Table, keep int) (int64, error)
}

// CheckAppendOnly validates a table for Insert and Prune.
func CheckAppendOnly(table Table) error {
	if !table.Valid() {
		return ErrUnknownTable
	}
	if table.DateKeyed() {
		return ErrDateKeyed
	}
	return nil
}

// CheckDateKeyed validates a table for the date-keyed operations.
func CheckDateKeyed(table Table) error {
	if !table.Valid() {
		return ErrUnknownTable
	}
	if !table.DateKeyed() {
		return ErrNotDateKeyed
	}
	return nil
}
