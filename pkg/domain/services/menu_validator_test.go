package services

import (
	"testing"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

func TestMenuValidator_ValidateOverrides(t *testing.T) {
	v := NewMenuValidator()
	items := []entities.MenuTemplateItem{canapes(), salmon()}

	clean := v.ValidateOverrides(items, entities.ServiceOverrides{Excluded: map[string]bool{"T1": true}})
	if clean.HasWarnings() {
		t.Errorf("expected no warnings, got %v", clean.Warnings)
	}

	overrides := entities.ServiceOverrides{
		Excluded: map[string]bool{"T1": true, "T9": true},
		Replaced: map[string]entities.MenuTemplateItem{
			"T1": {Name: "Mini quiche"},
			"T8": {Name: "Blinis"},
		},
	}
	res := v.ValidateOverrides(items, overrides)

	if len(res.ExcludedAndReplaced) != 1 || res.ExcludedAndReplaced[0] != "T1" {
		t.Errorf("expected T1 flagged as excluded and replaced, got %v", res.ExcludedAndReplaced)
	}
	if len(res.UnknownOverrideIDs) != 2 || res.UnknownOverrideIDs[0] != "T9" || res.UnknownOverrideIDs[1] != "T8" {
		t.Errorf("expected unknown overrides [T9 T8], got %v", res.UnknownOverrideIDs)
	}
	if len(res.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", res.Warnings)
	}
}

func TestMenuValidator_DuplicateItems(t *testing.T) {
	v := NewMenuValidator()
	res := v.ValidateOverrides([]entities.MenuTemplateItem{canapes(), canapes()}, entities.ServiceOverrides{})
	if len(res.DuplicateItemIDs) != 1 || res.DuplicateItemIDs[0] != "T1" {
		t.Errorf("expected T1 duplicate, got %v", res.DuplicateItemIDs)
	}
	if !res.HasWarnings() {
		t.Errorf("expected a warning for duplicates")
	}
}
