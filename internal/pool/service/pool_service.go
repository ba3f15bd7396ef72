package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goldenage-community/goldenage-backend/internal/apperror"
	"github.com/goldenage-community/goldenage-backend/internal/logging"
	"github.com/goldenage-community/goldenage-backend/internal/pool/domain"
	"github.com/goldenage-community/goldenage-backend/internal/shape"
	"github.com/goldenage-community/goldenage-backend/internal/snapshots"
	"github.com/goldenage-community/goldenage-backend/internal/xmltree"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// PoolService reads and writes pool-hours snapshots. Every write appends a
// new fully materialized version.
type PoolService struct {
	store snapshots.Store
	now   func() time.Time
}

// NewPoolService creates a new PoolService
func NewPoolService(store snapshots.Store) *PoolService {
	return &PoolService{store: store, now: time.Now}
}

// GetHours returns the current pool hours in client shape.
func (s *PoolService) GetHours(ctx context.Context) (shape.PoolHoursView, *snapshots.Snapshot, error) {
	snap, root, err := s.loadLatest(ctx)
	if err != nil {
		return shape.PoolHoursView{}, nil, err
	}
	return shape.PoolHours(root, s.now()), snap, nil
}

// GetVersion returns one historical snapshot in client shape.
func (s *PoolService) GetVersion(ctx context.Context, id int64) (shape.PoolHoursView, *snapshots.Snapshot, error) {
	snap, err := s.store.GetByID(ctx, snapshots.TablePoolHours, id)
	if errors.Is(err, snapshots.ErrNotFound) {
		return shape.PoolHoursView{}, nil, apperror.NotFound("Pool hours version %d not found", id)
	}
	if err != nil {
		return shape.PoolHoursView{}, nil, apperror.Database(err, "Failed to load pool hours")
	}
	root, err := xmltree.Parse(snap.Payload)
	if err != nil {
		return shape.PoolHoursView{}, nil, apperror.Data(err, "Error parsing pool hours data")
	}
	return shape.PoolHours(root, s.now()), snap, nil
}

// History lists stored versions, newest first.
func (s *PoolService) History(ctx context.Context, limit int) ([]snapshots.Snapshot, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	out, err := s.store.History(ctx, snapshots.TablePoolHours, limit)
	if err != nil {
		return nil, apperror.Database(err, "Failed to load pool hours history")
	}
	return out, nil
}

// ReplaceHours stores root as the new current pool hours.
func (s *PoolService) ReplaceHours(ctx context.Context, root *xmltree.Element) (*snapshots.Snapshot, error) {
	if root == nil || root.Name != shape.RootPoolHours {
		return nil, apperror.Validation("No pool hours XML provided")
	}
	snap, err := s.store.Insert(ctx, snapshots.TablePoolHours, xmltree.Serialize(root), s.now())
	if err != nil {
		return nil, apperror.Database(err, "Failed to save pool hours to database")
	}
	logging.FromContext(ctx).Info("pool hours replaced", "operation", "pool.replace", "snapshot_id", snap.ID)
	return snap, nil
}

// AddSpecialDay upserts a special-hours entry on top of the current
// snapshot and stores the result as a new snapshot.
func (s *PoolService) AddSpecialDay(ctx context.Context, req domain.SpecialDayRequest, pre domain.Precondition) (*snapshots.Snapshot, error) {
	req.Date = strings.TrimSpace(req.Date)
	req.Hours = strings.TrimSpace(req.Hours)
	if req.Date == "" || req.Hours == "" {
		return nil, apperror.Validation("Date and hours are required")
	}

	return s.mutate(ctx, "pool.special.upsert", pre, func(root *xmltree.Element, now time.Time) error {
		UpsertSpecialDay(root, domain.SpecialDay{Date: req.Date, Hours: req.Hours, Reason: req.Reason}, now)
		return nil
	})
}

// RemoveSpecialDay deletes the special-hours entry for date and stores the
// result as a new snapshot.
func (s *PoolService) RemoveSpecialDay(ctx context.Context, date string, pre domain.Precondition) (*snapshots.Snapshot, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, apperror.Validation("Date parameter is required")
	}

	return s.mutate(ctx, "pool.special.remove", pre, func(root *xmltree.Element, now time.Time) error {
		_, err := RemoveSpecialDay(root, date, now)
		switch {
		case errors.Is(err, domain.ErrSpecialDayNotFound):
			return apperror.NotFound("No special hours found for date %s", date)
		case errors.Is(err, domain.ErrNoSpecialHours):
			return apperror.NotFound("No special hours found")
		}
		return err
	})
}

// mutate runs one read-modify-write cycle: load the latest snapshot, apply
// fn to its tree, serialize and insert. Nothing is written when any step
// fails. Without a precondition concurrent writers are last-write-wins.
func (s *PoolService) mutate(ctx context.Context, op string, pre domain.Precondition, fn func(*xmltree.Element, time.Time) error) (*snapshots.Snapshot, error) {
	base, root, err := s.loadLatest(ctx)
	if err != nil {
		return nil, err
	}
	if pre.Set() && pre.SnapshotID != base.ID {
		return nil, apperror.Conflict("Pool hours changed since version %d", pre.SnapshotID).
			WithDetail("currentId", base.ID)
	}
	if root.Name != shape.RootPoolHours {
		return nil, apperror.Data(nil, "Invalid pool hours data structure")
	}

	now := s.now()
	if err := fn(root, now); err != nil {
		return nil, err
	}

	snap, err := s.store.Insert(ctx, snapshots.TablePoolHours, xmltree.Serialize(root), now)
	if err != nil {
		return nil, apperror.Database(err, "Failed to save pool hours to database")
	}
	logging.FromContext(ctx).Info("pool hours updated",
		"operation", op,
		"base_id", base.ID,
		"snapshot_id", snap.ID)
	return snap, nil
}

func (s *PoolService) loadLatest(ctx context.Context) (*snapshots.Snapshot, *xmltree.Element, error) {
	snap, err := s.store.GetLatest(ctx, snapshots.TablePoolHours)
	if errors.Is(err, snapshots.ErrNotFound) {
		return nil, nil, apperror.NotFound("Pool hours not found")
	}
	if err != nil {
		return nil, nil, apperror.Database(err, "Failed to load pool hours")
	}
	root, err := xmltree.Parse(snap.Payload)
	if err != nil {
		return nil, nil, apperror.Data(err, "Error parsing pool hours data")
	}
	return snap, root, nil
}
