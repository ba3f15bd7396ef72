// Package shape turns parsed menu and pool-hours documents into the
// simplified records served to clients, and checks their structure.
package shape

import (
	"fmt"
	"regexp"
	"time"

	"github.com/goldenage-community/goldenage-backend/internal/xmltree"
)

// Kind selects one of the known document schemas.
type Kind string

const (
	KindMenu      Kind = "menu"
	KindPoolHours Kind = "pool"
	KindGeneric   Kind = "generic"
)

const (
	RootMenu      = "menu"
	RootPoolHours = "poolHours"
)

// ParseKind maps a user-supplied schema name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "menu":
		return KindMenu, nil
	case "pool", "poolHours", "pool-hours":
		return KindPoolHours, nil
	case "generic", "":
		return KindGeneric, nil
	}
	return "", fmt.Errorf("unknown document kind %q", s)
}

// ToClientShape dispatches to Menu or PoolHours. Generic documents have no
// client shape.
func ToClientShape(root *xmltree.Element, kind Kind) any {
	switch kind {
	case KindMenu:
		return Menu(root)
	case KindPoolHours:
		return PoolHours(root, time.Now())
	}
	return nil
}

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsISODate reports whether s looks like YYYY-MM-DD.
func IsISODate(s string) bool {
	return isoDate.MatchString(s)
}

// Result is the outcome of a structural validation. Warnings never make a
// document invalid.
type Result struct {
	Valid    bool     `json:"valid" yaml:"valid"`
	Message  string   `json:"message" yaml:"message"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func invalid(msg string) Result { return Result{Message: msg} }

// ValidateMenu checks the root, the date attribute and the meals section.
func ValidateMenu(root *xmltree.Element) Result {
	if root == nil || root.Name != RootMenu {
		return invalid("missing root 'menu' element")
	}
	date, ok := root.Attr("date")
	if !ok || date == "" {
		return invalid("missing required 'date' attribute on menu element")
	}
	if !IsISODate(date) {
		return invalid("date must be in YYYY-MM-DD format")
	}
	if root.Child("meals") == nil {
		return invalid("missing 'meals' element")
	}
	return Result{Valid: true, Message: "valid menu XML"}
}

// ValidatePoolHours checks the root and the weekdays and weekend sections.
func ValidatePoolHours(root *xmltree.Element) Result {
	if root == nil || root.Name != RootPoolHours {
		return invalid("missing root 'poolHours' element")
	}
	if root.Child("weekdays") == nil || root.Child("weekend") == nil {
		return invalid("missing required 'weekdays' or 'weekend' elements")
	}
	res := Result{Valid: true, Message: "valid pool hours XML"}
	if _, ok := root.Attr("lastUpdated"); !ok {
		res.Warnings = append(res.Warnings, "missing 'lastUpdated' attribute on poolHours element")
	}
	return res
}

// Validate runs the validator for kind.
func Validate(root *xmltree.Element, kind Kind) Result {
	switch kind {
	case KindMenu:
		return ValidateMenu(root)
	case KindPoolHours:
		return ValidatePoolHours(root)
	}
	return Result{Valid: root != nil, Message: "valid XML structure"}
}
