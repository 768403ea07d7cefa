package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is the unit of measure a need or a purchase is expressed in
type Unit string

const (
	UnitKg   Unit = "kg"
	UnitEach Unit = "unit"
)

// Valid reports whether u is a known unit
func (u Unit) Valid() bool {
	return u == UnitKg || u == UnitEach
}

// RoundingRule names how a raw quantity becomes a purchasable quantity
type RoundingRule string

const (
	RoundNone     RoundingRule = "none"
	RoundCeilUnit RoundingRule = "ceil_unit"
	RoundCeilPack RoundingRule = "ceil_pack"
)

// Valid reports whether r is a known rounding rule
func (r RoundingRule) Valid() bool {
	switch r {
	case RoundNone, RoundCeilUnit, RoundCeilPack:
		return true
	default:
		return false
	}
}

// ServiceFormat is the seating format of an event service
type ServiceFormat string

const (
	FormatSeated   ServiceFormat = "seated"
	FormatStanding ServiceFormat = "standing"
)

// Valid reports whether f is a known seating format
func (f ServiceFormat) Valid() bool {
	return f == FormatSeated || f == FormatStanding
}

// MenuTemplateItem is one line of a menu template
type MenuTemplateItem struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	Section             string           `json:"section,omitempty"`
	Unit                Unit             `json:"unit"`
	QtyPerSeatedGuest   decimal.Decimal  `json:"qty_per_seated_guest"`
	QtyPerStandingGuest decimal.Decimal  `json:"qty_per_standing_guest"`
	RoundingRule        RoundingRule     `json:"rounding_rule"`
	PackSize            *decimal.Decimal `json:"pack_size,omitempty"`
	Notes               string           `json:"notes,omitempty"`
}

// NewMenuTemplateItem creates a validated MenuTemplateItem
func NewMenuTemplateItem(
	id, name, section string,
	unit Unit,
	perSeated, perStanding decimal.Decimal,
	rule RoundingRule,
	packSize *decimal.Decimal,
) (*MenuTemplateItem, error) {
	item := &MenuTemplateItem{
		ID:                  id,
		Name:                strings.TrimSpace(name),
		Section:             section,
		Unit:                unit,
		QtyPerSeatedGuest:   perSeated,
		QtyPerStandingGuest: perStanding,
		RoundingRule:        rule,
		PackSize:            packSize,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks the invariants of a template or ad-hoc item
func (i MenuTemplateItem) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("item name cannot be empty")
	}
	if !i.Unit.Valid() {
		return fmt.Errorf("unknown unit %q for item %s", i.Unit, i.Name)
	}
	if i.QtyPerSeatedGuest.IsNegative() || i.QtyPerStandingGuest.IsNegative() {
		return fmt.Errorf("per-guest ratios cannot be negative for item %s", i.Name)
	}
	if !i.QtyPerSeatedGuest.IsPositive() && !i.QtyPerStandingGuest.IsPositive() {
		return fmt.Errorf("item %s needs at least one positive per-guest ratio", i.Name)
	}
	if !i.RoundingRule.Valid() {
		return fmt.Errorf("unknown rounding rule %q for item %s", i.RoundingRule, i.Name)
	}
	if i.RoundingRule == RoundCeilPack && (i.PackSize == nil || !i.PackSize.IsPositive()) {
		return fmt.Errorf("rounding rule ceil_pack requires a positive pack size for item %s", i.Name)
	}
	return nil
}

// RatioFor returns the per-guest quantity for the given seating format
func (i MenuTemplateItem) RatioFor(format ServiceFormat) decimal.Decimal {
	if format == FormatSeated {
		return i.QtyPerSeatedGuest
	}
	return i.QtyPerStandingGuest
}

// ServiceOverrides are the manual adjustments made to one service's menu.
// Excluded wins over Replaced when both name the same template item.
type ServiceOverrides struct {
	Excluded map[string]bool            `json:"excluded,omitempty"`
	Added    []MenuTemplateItem         `json:"added,omitempty"`
	Replaced map[string]MenuTemplateItem `json:"replaced,omitempty"`
}

// IsExcluded reports whether the template item is suppressed for the service
func (o ServiceOverrides) IsExcluded(templateItemID string) bool {
	return o.Excluded[templateItemID]
}

// Replacement returns the replacement definition for a template item, if any
func (o ServiceOverrides) Replacement(templateItemID string) (MenuTemplateItem, bool) {
	item, ok := o.Replaced[templateItemID]
	return item, ok
}
