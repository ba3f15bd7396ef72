package domain

import (
	"encoding/json"

	"github.com/goldenage-community/goldenage-backend/internal/shape"
)

// DateLayout is the calendar date format used for menu keys.
const DateLayout = "2006-01-02"

// WeeklyMenu is the Sunday..Saturday window around a requested date.
type WeeklyMenu struct {
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	Menus     []shape.MenuView `json:"menus"`
}

// RestaurantHours is the stored JSON document. Only the two required keys
// are checked; everything else is kept verbatim.
type RestaurantHours struct {
	Weekdays json.RawMessage `json:"weekdays"`
	Weekend  json.RawMessage `json:"weekend"`
}
