package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMenuTemplateItem_Validation(t *testing.T) {
	pack := decimal.NewFromInt(6)

	valid, err := NewMenuTemplateItem("T1", "  Canapé  ", "starters", UnitEach,
		decimal.NewFromInt(3), decimal.NewFromInt(2), RoundCeilUnit, nil)
	if err != nil {
		t.Fatalf("Expected valid item creation to succeed: %v", err)
	}
	if valid.Name != "Canapé" {
		t.Errorf("Expected trimmed name 'Canapé', got '%s'", valid.Name)
	}

	zero := decimal.Zero
	negativePack := decimal.NewFromInt(-1)

	testCases := []struct {
		name        string
		itemName    string
		unit        Unit
		seated      decimal.Decimal
		standing    decimal.Decimal
		rule        RoundingRule
		pack        *decimal.Decimal
		expectError string
	}{
		{"empty name", "", UnitKg, decimal.NewFromInt(1), zero, RoundNone, nil, "item name cannot be empty"},
		{"bad unit", "Bread", "litre", decimal.NewFromInt(1), zero, RoundNone, nil, `unknown unit "litre" for item Bread`},
		{"negative ratio", "Bread", UnitKg, decimal.NewFromInt(-1), decimal.NewFromInt(1), RoundNone, nil, "per-guest ratios cannot be negative for item Bread"},
		{"no positive ratio", "Bread", UnitKg, zero, zero, RoundNone, nil, "item Bread needs at least one positive per-guest ratio"},
		{"bad rule", "Bread", UnitKg, decimal.NewFromInt(1), zero, "floor", nil, `unknown rounding rule "floor" for item Bread`},
		{"pack rule without pack", "Bread", UnitKg, decimal.NewFromInt(1), zero, RoundCeilPack, nil, "rounding rule ceil_pack requires a positive pack size for item Bread"},
		{"pack rule with negative pack", "Bread", UnitKg, decimal.NewFromInt(1), zero, RoundCeilPack, &negativePack, "rounding rule ceil_pack requires a positive pack size for item Bread"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMenuTemplateItem("T", tc.itemName, "", tc.unit, tc.seated, tc.standing, tc.rule, tc.pack)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}

	if _, err := NewMenuTemplateItem("T2", "Rolls", "", UnitEach, decimal.NewFromInt(2), zero, RoundCeilPack, &pack); err != nil {
		t.Errorf("Expected pack rule with pack size to be valid: %v", err)
	}
}

func TestMenuTemplateItem_RatioFor(t *testing.T) {
	item := MenuTemplateItem{
		QtyPerSeatedGuest:   decimal.RequireFromString("0.25"),
		QtyPerStandingGuest: decimal.RequireFromString("0.1"),
	}
	if got := item.RatioFor(FormatSeated); !got.Equal(decimal.RequireFromString("0.25")) {
		t.Errorf("Expected seated ratio 0.25, got %s", got)
	}
	if got := item.RatioFor(FormatStanding); !got.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("Expected standing ratio 0.1, got %s", got)
	}
}

func TestServiceOverrides_Lookups(t *testing.T) {
	o := ServiceOverrides{
		Excluded: map[string]bool{"T1": true},
		Replaced: map[string]MenuTemplateItem{"T2": {Name: "Sourdough"}},
	}
	if !o.IsExcluded("T1") || o.IsExcluded("T2") {
		t.Errorf("Unexpected exclusion lookup result")
	}
	if r, ok := o.Replacement("T2"); !ok || r.Name != "Sourdough" {
		t.Errorf("Expected replacement Sourdough for T2, got %+v (found=%v)", r, ok)
	}

	var empty ServiceOverrides
	if empty.IsExcluded("T1") {
		t.Errorf("Expected zero-value overrides to exclude nothing")
	}
	if _, ok := empty.Replacement("T1"); ok {
		t.Errorf("Expected zero-value overrides to replace nothing")
	}
}
