package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/goldenage-community/goldenage-backend/internal/snapshots"
)

// Dialect selects the small SQL differences between backends.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

// sqliteTimeLayout is fixed-width so lexical order matches time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLStore implements snapshots.Store over database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLStore creates a new SQLStore
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

var _ snapshots.Store = (*SQLStore)(nil)

func selectColumns(table snapshots.Table) string {
	if table.DateKeyed() {
		return "id, payload, last_updated, menu_date"
	}
	return "id, payload, last_updated, ''"
}

// GetLatest retrieves the most recently updated snapshot
func (s *SQLStore) GetLatest(ctx context.Context, table snapshots.Table) (*snapshots.Snapshot, error) {
	if !table.Valid() {
		return nil, snapshots.ErrUnknownTable
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY last_updated DESC, id DESC
		LIMIT 1
	`, selectColumns(table), table)

	return s.queryOne(ctx, table, query)
}

// GetByID retrieves a snapshot by its surrogate id
func (s *SQLStore) GetByID(ctx context.Context, table snapshots.Table, id int64) (*snapshots.Snapshot, error) {
	if !table.Valid() {
		return nil, snapshots.ErrUnknownTable
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, selectColumns(table), table)

	return s.queryOne(ctx, table, query, id)
}

// GetByDate retrieves the snapshot stored for a calendar date
func (s *SQLStore) GetByDate(ctx context.Context, table snapshots.Table, date string) (*snapshots.Snapshot, error) {
	if err := snapshots.CheckDateKeyed(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE menu_date = $1`, selectColumns(table), table)

	return s.queryOne(ctx, table, query, date)
}

// ListByDateRange retrieves snapshots whose date falls in [from, to]
func (s *SQLStore) ListByDateRange(ctx context.Context, table snapshots.Table, from, to string) ([]snapshots.Snapshot, error) {
	if err := snapshots.CheckDateKeyed(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE menu_date BETWEEN $1 AND $2
		ORDER BY menu_date ASC
	`, selectColumns(table), table)

	return s.queryMany(ctx, table, query, from, to)
}

// History retrieves up to limit snapshots, newest first
func (s *SQLStore) History(ctx context.Context, table snapshots.Table, limit int) ([]snapshots.Snapshot, error) {
	if !table.Valid() {
		return nil, snapshots.ErrUnknownTable
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY last_updated DESC, id DESC
		LIMIT $1
	`, selectColumns(table), table)

	return s.queryMany(ctx, table, query, limit)
}

// Insert appends a new snapshot row
func (s *SQLStore) Insert(ctx context.Context, table snapshots.Table, payload string, at time.Time) (*snapshots.Snapshot, error) {
	if err := snapshots.CheckAppendOnly(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (payload, last_updated)
		VALUES ($1, $2)
		RETURNING id
	`, table)

	snap := &snapshots.Snapshot{Table: table, Payload: payload, LastUpdated: at.UTC()}
	if err := s.db.QueryRowContext(ctx, query, payload, s.timeArg(at)).Scan(&snap.ID); err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return snap, nil
}

// UpsertByDate replaces the snapshot for date in place, or creates it
func (s *SQLStore) UpsertByDate(ctx context.Context, table snapshots.Table, date, payload string, at time.Time) (*snapshots.Snapshot, bool, error) {
	if err := snapshots.CheckDateKeyed(table); err != nil {
		return nil, false, err
	}

	snap := &snapshots.Snapshot{Table: table, Date: date, Payload: payload, LastUpdated: at.UTC()}

	updated, err := s.updateByDate(ctx, table, snap)
	if err != nil {
		return nil, false, err
	}
	if updated {
		return snap, false, nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (menu_date, payload, last_updated)
		VALUES ($1, $2, $3)
		RETURNING id
	`, table)
	err = s.db.QueryRowContext(ctx, query, date, payload, s.timeArg(at)).Scan(&snap.ID)
	if err == nil {
		return snap, true, nil
	}

	// Lost a race with a concurrent insert for the same date.
	if isUniqueViolation(err) {
		updated, uerr := s.updateByDate(ctx, table, snap)
		if uerr != nil {
			return nil, false, uerr
		}
		if updated {
			return snap, false, nil
		}
	}
	return nil, false, fmt.Errorf("failed to upsert snapshot: %w", err)
}

func (s *SQLStore) updateByDate(ctx context.Context, table snapshots.Table, snap *snapshots.Snapshot) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET payload = $1, last_updated = $2
		WHERE menu_date = $3
		RETURNING id
	`, table)

	err := s.db.QueryRowContext(ctx, query, snap.Payload, s.timeArg(snap.LastUpdated), snap.Date).Scan(&snap.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to update snapshot: %w", err)
	}
	return true, nil
}

// Prune deletes all but the newest keep snapshots
func (s *SQLStore) Prune(ctx context.Context, table snapshots.Table, keep int) (int64, error) {
	if err := snapshots.CheckAppendOnly(table); err != nil {
		return 0, err
	}
	if keep < 1 {
		return 0, snapshots.ErrInvalidKeep
	}
	query := fmt.Sprintf(`
		DELETE FROM %[1]s
		WHERE id NOT IN (
			SELECT id FROM %[1]s
			ORDER BY last_updated DESC, id DESC
			LIMIT $1
		)
	`, table)

	res, err := s.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned snapshots: %w", err)
	}
	return n, nil
}

func (s *SQLStore) queryOne(ctx context.Context, table snapshots.Table, query string, args ...any) (*snapshots.Snapshot, error) {
	snap := snapshots.Snapshot{Table: table}
	var ts timestamp
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&snap.ID, &snap.Payload, &ts, &snap.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, snapshots.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	snap.LastUpdated = ts.Time
	return &snap, nil
}

func (s *SQLStore) queryMany(ctx context.Context, table snapshots.Table, query string, args ...any) ([]snapshots.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	out := make([]snapshots.Snapshot, 0, 8)
	for rows.Next() {
		snap := snapshots.Snapshot{Table: table}
		var ts timestamp
		if err := rows.Scan(&snap.ID, &snap.Payload, &ts, &snap.Date); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap.LastUpdated = ts.Time
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return out, nil
}

func (s *SQLStore) timeArg(t time.Time) any {
	if s.dialect == DialectSQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}

// timestamp scans TIMESTAMPTZ values as well as the text form SQLite keeps.
type timestamp struct {
	time.Time
}

func (t *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	}
	return fmt.Errorf("unsupported timestamp type %T", src)
}

func (t *timestamp) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.Time = parsed.UTC()
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
