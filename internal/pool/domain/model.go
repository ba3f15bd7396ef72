package domain

import (
	"errors"
	"time"
)

var (
	ErrNoSpecialHours     = errors.New("no special hours found")
	ErrSpecialDayNotFound = errors.New("no special hours found for date")
)

// TimestampLayout is the combined ISO-8601 form written to lastUpdated.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// SpecialDay is a date-keyed override of the regular pool hours.
type SpecialDay struct {
	Date   string `json:"date"`
	Hours  string `json:"hours"`
	Reason string `json:"reason"`
}

// SpecialDayRequest is the body of POST /api/pool/hours/special.
type SpecialDayRequest struct {
	Date   string `json:"date"`
	Hours  string `json:"hours"`
	Reason string `json:"reason"`
}

// Precondition carries an optional If-Match snapshot id. A zero value
// means last-write-wins.
type Precondition struct {
	SnapshotID int64
}

func (p Precondition) Set() bool { return p.SnapshotID > 0 }
