package service

import (
	"fmt"
	"time"

	"github.com/goldenage-community/goldenage-backend/internal/pool/domain"
	"github.com/goldenage-community/goldenage-backend/internal/xmltree"
)

const (
	specialHoursTag = "specialHours"
	specialDayTag   = "day"
)

// UpsertSpecialDay inserts or replaces the special-hours entry for day.Date
// and stamps the root's lastUpdated with now. An existing entry keeps its
// position; a new one goes last.
func UpsertSpecialDay(root *xmltree.Element, day domain.SpecialDay, now time.Time) *xmltree.Element {
	section := root.EnsureChild(specialHoursTag)
	days := xmltree.ToSequence(section.ChildGroup(specialDayTag))

	entry := xmltree.NewElement(specialDayTag).
		SetAttr("date", day.Date).
		SetAttr("hours", day.Hours).
		SetAttr("reason", day.Reason)

	if i := xmltree.FindByAttr(days, "date", day.Date); i >= 0 {
		days[i] = entry
	} else {
		days = append(days, entry)
	}
	section.SetGroup(specialDayTag, days)

	root.SetAttr("lastUpdated", domain.FormatTimestamp(now))
	return root
}

// RemoveSpecialDay deletes the first entry for date and stamps lastUpdated.
// It fails with domain.ErrNoSpecialHours when the document has no
// special-hours section and domain.ErrSpecialDayNotFound when no entry
// matches. Removing the last entry leaves an empty section.
func RemoveSpecialDay(root *xmltree.Element, date string, now time.Time) (*xmltree.Element, error) {
	section := root.Child(specialHoursTag)
	if section == nil {
		return nil, domain.ErrNoSpecialHours
	}
	days := xmltree.ToSequence(section.ChildGroup(specialDayTag))
	if len(days) == 0 {
		return nil, domain.ErrNoSpecialHours
	}

	i := xmltree.FindByAttr(days, "date", date)
	if i < 0 {
		return nil, fmt.Errorf("%w %s", domain.ErrSpecialDayNotFound, date)
	}
	remaining := make([]*xmltree.Element, 0, len(days)-1)
	remaining = append(remaining, days[:i]...)
	remaining = append(remaining, days[i+1:]...)
	section.SetGroup(specialDayTag, remaining)

	root.SetAttr("lastUpdated", domain.FormatTimestamp(now))
	return root, nil
}
