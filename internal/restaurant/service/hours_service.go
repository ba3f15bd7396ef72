package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/goldenage-community/goldenage-backend/internal/apperror"
	"github.com/goldenage-community/goldenage-backend/internal/logging"
	"github.com/goldenage-community/goldenage-backend/internal/restaurant/domain"
	"github.com/goldenage-community/goldenage-backend/internal/snapshots"
)

// HoursService stores restaurant hours as JSON snapshots. It does not go
// through the XML codec.
type HoursService struct {
	store snapshots.Store
	now   func() time.Time
}

// NewHoursService creates a new HoursService
func NewHoursService(store snapshots.Store) *HoursService {
	return &HoursService{store: store, now: time.Now}
}

// GetHours returns the current hours document verbatim.
func (s *HoursService) GetHours(ctx context.Context) (json.RawMessage, error) {
	snap, err := s.store.GetLatest(ctx, snapshots.TableRestaurantHours)
	if errors.Is(err, snapshots.ErrNotFound) {
		return nil, apperror.NotFound("Restaurant hours not found")
	}
	if err != nil {
		return nil, apperror.Database(err, "Failed to load restaurant hours")
	}
	if !json.Valid([]byte(snap.Payload)) {
		return nil, apperror.Data(nil, "Invalid hours data format")
	}
	return json.RawMessage(snap.Payload), nil
}

// UpdateHours validates body and appends it as the new current hours.
func (s *HoursService) UpdateHours(ctx context.Context, body []byte) (*snapshots.Snapshot, error) {
	if err := ValidateHours(body); err != nil {
		return nil, err
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return nil, apperror.Validation("Invalid hours data format")
	}

	snap, err := s.store.Insert(ctx, snapshots.TableRestaurantHours, compact.String(), s.now())
	if err != nil {
		return nil, apperror.Database(err, "Failed to save restaurant hours to database")
	}
	logging.FromContext(ctx).Info("restaurant hours replaced", "operation", "restaurant.hours", "snapshot_id", snap.ID)
	return snap, nil
}

// ValidateHours requires a JSON object with non-empty weekdays and weekend.
func ValidateHours(body []byte) error {
	invalid := apperror.Validation("Invalid hours data format. Must include weekdays and weekend schedules")

	var doc domain.RestaurantHours
	if err := json.Unmarshal(body, &doc); err != nil {
		return invalid
	}
	if empty(doc.Weekdays) || empty(doc.Weekend) {
		return invalid
	}
	return nil
}

// empty treats absent, null, false, 0 and "" as missing.
func empty(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", "0", `""`:
		return true
	}
	return false
}
