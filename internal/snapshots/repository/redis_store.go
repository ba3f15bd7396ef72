package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goldenage-community/goldenage-backend/internal/logging"
	"github.com/goldenage-community/goldenage-backend/internal/snapshots"
)

const (
	snapKeyPrefix      = "snap:"        // snap:{table}:...
	snapEventChannel   = "snap:events:" // Pub/Sub channel for snapshot writes: snap:events:{table}
	redisIDWidth       = 20             // zero padding so lexical member order matches id order
	redisTimeFieldName = "last_updated"
)

// ChangeEvent is published on snap:events:{table} after every write.
type ChangeEvent struct {
	ID          int64           `json:"id"`
	Table       snapshots.Table `json:"table"`
	Date        string          `json:"date,omitempty"`
	Created     bool            `json:"created"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// RedisStore implements snapshots.Store on Redis.
//
// Each row is a hash at snap:{table}:row:{id}. A sorted set scored by
// lastUpdated (microseconds) orders rows in time; members are zero-padded
// ids so equal scores fall back to the greater id. Menus additionally keep
// a date -> id hash and a lexically ordered date set.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new RedisStore
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ snapshots.Store = (*RedisStore)(nil)

// GetLatest retrieves the most recently updated snapshot
func (r *RedisStore) GetLatest(ctx context.Context, table snapshots.Table) (*snapshots.Snapshot, error) {
	if !table.Valid() {
		return nil, snapshots.ErrUnknownTable
	}
	members, err := r.client.ZRevRange(ctx, r.byTimeKey(table), 0, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}
	if len(members) == 0 {
		return nil, snapshots.ErrNotFound
	}
	id, err := parseMember(members[0])
	if err != nil {
		return nil, err
	}
	return r.getRow(ctx, table, id)
}

// GetByID retrieves a snapshot by its surrogate id
func (r *RedisStore) GetByID(ctx context.Context, table snapshots.Table, id int64) (*snapshots.Snapshot, error) {
	if !table.Valid() {
		return nil, snapshots.ErrUnknownTable
	}
	return r.getRow(ctx, table, id)
}

// GetByDate retrieves the snapshot stored for a calendar date
func (r *RedisStore) GetByDate(ctx context.Context, table snapshots.Table, date string) (*snapshots.Snapshot, error) {
	if err := snapshots.CheckDateKeyed(table); err != nil {
		return nil, err
	}
	id, err := r.client.HGet(ctx, r.dateIDsKey(table), date).Int64()
	if err == redis.Nil {
		return nil, snapshots.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot id for date: %w", err)
	}
	return r.getRow(ctx, table, id)
}

// ListByDateRange retrieves snapshots whose date falls in [from, to]
func (r *RedisStore) ListByDateRange(ctx context.Context, table snapshots.Table, from, to string) ([]snapshots.Snapshot, error) {
	if err := snapshots.CheckDateKeyed(table); err != nil {
		return nil, err
	}
	dates, err := r.client.ZRangeByLex(ctx, r.datesKey(table), &redis.ZRangeBy{
		Min: "[" + from,
		Max: "[" + to,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot dates: %w", err)
	}

	out := make([]snapshots.Snapshot, 0, len(dates))
	if len(dates) == 0 {
		return out, nil
	}

	ids, err := r.client.HMGet(ctx, r.dateIDsKey(table), dates...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot ids for dates: %w", err)
	}
	for _, raw := range ids {
		s, ok := raw.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid snapshot id %q: %w", s, err)
		}
		snap, err := r.getRow(ctx, table, id)
		if errors.Is(err, snapshots.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *snap)
	}
	return out, nil
}

// History retrieves up to limit snapshots, newest first
func (r *RedisStore) History(ctx context.Context, table snapshots.Table, limit int) ([]snapshots.Snapshot, error) {
	if !table.Valid() {
		return nil, snapshots.ErrUnknownTable
	}
	out := make([]snapshots.Snapshot, 0, 8)
	if limit <= 0 {
		return out, nil
	}
	members, err := r.client.ZRevRange(ctx, r.byTimeKey(table), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	for _, m := range members {
		id, err := parseMember(m)
		if err != nil {
			return nil, err
		}
		snap, err := r.getRow(ctx, table, id)
		if errors.Is(err, snapshots.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *snap)
	}
	return out, nil
}

// Insert appends a new snapshot row
func (r *RedisStore) Insert(ctx context.Context, table snapshots.Table, payload string, at time.Time) (*snapshots.Snapshot, error) {
	if err := snapshots.CheckAppendOnly(table); err != nil {
		return nil, err
	}
	id, err := r.client.Incr(ctx, r.seqKey(table)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate snapshot id: %w", err)
	}

	snap := &snapshots.Snapshot{ID: id, Table: table, Payload: payload, LastUpdated: at.UTC()}
	if err := r.writeRow(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}
	r.publish(ctx, snap, true)
	return snap, nil
}

// UpsertByDate replaces the snapshot for date in place, or creates it
func (r *RedisStore) UpsertByDate(ctx context.Context, table snapshots.Table, date, payload string, at time.Time) (*snapshots.Snapshot, bool, error) {
	if err := snapshots.CheckDateKeyed(table); err != nil {
		return nil, false, err
	}
	snap := &snapshots.Snapshot{Table: table, Date: date, Payload: payload, LastUpdated: at.UTC()}

	id, err := r.client.HGet(ctx, r.dateIDsKey(table), date).Int64()
	created := false
	switch {
	case err == redis.Nil:
		newID, ierr := r.client.Incr(ctx, r.seqKey(table)).Result()
		if ierr != nil {
			return nil, false, fmt.Errorf("failed to allocate snapshot id: %w", ierr)
		}
		// HSETNX settles a race between two creators of the same date.
		won, serr := r.client.HSetNX(ctx, r.dateIDsKey(table), date, newID).Result()
		if serr != nil {
			return nil, false, fmt.Errorf("failed to index snapshot date: %w", serr)
		}
		if won {
			id, created = newID, true
		} else if id, err = r.client.HGet(ctx, r.dateIDsKey(table), date).Int64(); err != nil {
			return nil, false, fmt.Errorf("failed to get snapshot id for date: %w", err)
		}
	case err != nil:
		return nil, false, fmt.Errorf("failed to get snapshot id for date: %w", err)
	}

	snap.ID = id
	if err := r.writeRow(ctx, snap); err != nil {
		return nil, false, fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	r.publish(ctx, snap, created)
	return snap, created, nil
}

// Prune deletes all but the newest keep snapshots
func (r *RedisStore) Prune(ctx context.Context, table snapshots.Table, keep int) (int64, error) {
	if err := snapshots.CheckAppendOnly(table); err != nil {
		return 0, err
	}
	if keep < 1 {
		return 0, snapshots.ErrInvalidKeep
	}
	stale, err := r.client.ZRevRange(ctx, r.byTimeKey(table), int64(keep), -1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list stale snapshots: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	pipe := r.client.TxPipeline()
	for _, m := range stale {
		id, err := parseMember(m)
		if err != nil {
			return 0, err
		}
		pipe.Del(ctx, r.rowKey(table, id))
		pipe.ZRem(ctx, r.byTimeKey(table), m)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return int64(len(stale)), nil
}

func (r *RedisStore) writeRow(ctx context.Context, snap *snapshots.Snapshot) error {
	table := snap.Table
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, r.rowKey(table, snap.ID), map[string]any{
		"payload":          snap.Payload,
		redisTimeFieldName: snap.LastUpdated.Format(time.RFC3339Nano),
		"date":             snap.Date,
	})
	pipe.ZAdd(ctx, r.byTimeKey(table), redis.Z{
		Score:  float64(snap.LastUpdated.UnixMicro()),
		Member: formatMember(snap.ID),
	})
	if table.DateKeyed() {
		pipe.ZAdd(ctx, r.datesKey(table), redis.Z{Score: 0, Member: snap.Date})
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) getRow(ctx context.Context, table snapshots.Table, id int64) (*snapshots.Snapshot, error) {
	fields, err := r.client.HGetAll(ctx, r.rowKey(table, id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	if len(fields) == 0 {
		return nil, snapshots.ErrNotFound
	}
	var ts timestamp
	if err := ts.parse(fields[redisTimeFieldName]); err != nil {
		return nil, err
	}
	return &snapshots.Snapshot{
		ID:          id,
		Table:       table,
		Date:        fields["date"],
		Payload:     fields["payload"],
		LastUpdated: ts.Time,
	}, nil
}

func (r *RedisStore) publish(ctx context.Context, snap *snapshots.Snapshot, created bool) {
	data, err := json.Marshal(ChangeEvent{
		ID:          snap.ID,
		Table:       snap.Table,
		Date:        snap.Date,
		Created:     created,
		LastUpdated: snap.LastUpdated,
	})
	if err == nil {
		err = r.client.Publish(ctx, EventChannel(snap.Table), data).Err()
	}
	if err != nil {
		logging.FromContext(ctx).Warn("failed to publish snapshot change event",
			"table", snap.Table,
			"snapshot_id", snap.ID,
			"error", err)
	}
}

// EventChannel is the Pub/Sub channel carrying ChangeEvents for table.
func EventChannel(table snapshots.Table) string {
	return snapEventChannel + string(table)
}

func (r *RedisStore) seqKey(table snapshots.Table) string {
	return snapKeyPrefix + string(table) + ":seq"
}

func (r *RedisStore) rowKey(table snapshots.Table, id int64) string {
	return fmt.Sprintf("%s%s:row:%d", snapKeyPrefix, table, id)
}

func (r *RedisStore) byTimeKey(table snapshots.Table) string {
	return snapKeyPrefix + string(table) + ":by_time"
}

func (r *RedisStore) datesKey(table snapshots.Table) string {
	return snapKeyPrefix + string(table) + ":dates"
}

func (r *RedisStore) dateIDsKey(table snapshots.Table) string {
	return snapKeyPrefix + string(table) + ":date_ids"
}

func formatMember(id int64) string {
	return fmt.Sprintf("%0*d", redisIDWidth, id)
}

func parseMember(m string) (int64, error) {
	id, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snapshot member %q: %w", m, err)
	}
	return id, nil
}
