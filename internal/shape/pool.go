package shape

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"

	"github.com/goldenage-community/goldenage-backend/internal/xmltree"
)

// PoolHoursView is the client shape of a poolHours document.
type PoolHoursView struct {
	LastUpdated string            `json:"lastUpdated" yaml:"lastUpdated"`
	Weekdays    map[string]string `json:"weekdays" yaml:"weekdays"`
	Weekend     map[string]string `json:"weekend" yaml:"weekend"`
	SpecialDays []SpecialDay      `json:"specialDays" yaml:"specialDays"`

	// Degraded marks the fallback record returned for a missing or foreign
	// root; it renders as {lastUpdated} only.
	Degraded bool `json:"-" yaml:"-"`
}

// SpecialDay is one date-keyed override of the regular schedule.
type SpecialDay struct {
	Date   string  `json:"date" yaml:"date"`
	Reason *string `json:"reason" yaml:"reason"`
	Hours  *string `json:"hours" yaml:"hours"`
}

func (v PoolHoursView) MarshalJSON() ([]byte, error) {
	if v.Degraded {
		return json.Marshal(struct {
			LastUpdated string `json:"lastUpdated"`
		}{v.LastUpdated})
	}
	type plain PoolHoursView
	return json.Marshal(plain(v))
}

// PoolHours converts a parsed poolHours document into its client shape.
// It never fails: anything other than a poolHours root yields the degraded
// record stamped with now.
func PoolHours(root *xmltree.Element, now time.Time) PoolHoursView {
	stamp := now.UTC().Format(time.RFC3339Nano)
	if root == nil || root.Name != RootPoolHours {
		return PoolHoursView{LastUpdated: stamp, Degraded: true}
	}

	return PoolHoursView{
		LastUpdated: root.AttrOr("lastUpdated", stamp),
		Weekdays:    sessions(root.Child("weekdays")),
		Weekend:     sessions(root.Child("weekend")),
		SpecialDays: specialDays(root.Child("specialHours")),
	}
}

func sessions(block *xmltree.Element) map[string]string {
	out := map[string]string{}
	for _, s := range xmltree.ToSequence(block.ChildGroup("session")) {
		typ, _ := s.Attr("type")
		hours, _ := s.Attr("hours")
		if typ != "" && hours != "" {
			out[typ] = hours
		}
	}
	return out
}

func specialDays(block *xmltree.Element) []SpecialDay {
	days := xmltree.ToSequence(block.ChildGroup("day"))
	return lo.FilterMap(days, func(d *xmltree.Element, _ int) (SpecialDay, bool) {
		date, _ := d.Attr("date")
		if date == "" {
			return SpecialDay{}, false
		}
		return SpecialDay{
			Date:   date,
			Reason: optional(d, "reason"),
			Hours:  optional(d, "hours"),
		}, true
	})
}

func optional(el *xmltree.Element, attr string) *string {
	if v, ok := el.Attr(attr); ok && v != "" {
		return &v
	}
	return nil
}
