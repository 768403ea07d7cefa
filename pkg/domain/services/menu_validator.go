package services

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

// MenuValidator checks a template and its overrides for contradictions
// that the need deriver resolves silently
type MenuValidator struct{}

// NewMenuValidator creates a new menu validator
func NewMenuValidator() *MenuValidator {
	return &MenuValidator{}
}

// ValidationResult contains the results of menu validation
type ValidationResult struct {
	ExcludedAndReplaced []string
	UnknownOverrideIDs  []string
	DuplicateItemIDs    []string
	Warnings            []string
}

// HasWarnings reports whether anything was flagged
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// ValidateOverrides flags override entries that conflict with each other or
// point at items missing from the template
func (v *MenuValidator) ValidateOverrides(items []entities.MenuTemplateItem, overrides entities.ServiceOverrides) *ValidationResult {
	result := &ValidationResult{
		ExcludedAndReplaced: make([]string, 0),
		UnknownOverrideIDs:  make([]string, 0),
		DuplicateItemIDs:    make([]string, 0),
		Warnings:            make([]string, 0),
	}

	known := make(map[string]bool, len(items))
	for _, item := range items {
		if known[item.ID] {
			result.DuplicateItemIDs = append(result.DuplicateItemIDs, item.ID)
			continue
		}
		known[item.ID] = true
	}

	// template order keeps the output stable
	for _, item := range items {
		if !overrides.IsExcluded(item.ID) {
			continue
		}
		if _, replaced := overrides.Replacement(item.ID); replaced {
			result.ExcludedAndReplaced = append(result.ExcludedAndReplaced, item.ID)
		}
	}

	for _, id := range slices.Sorted(maps.Keys(overrides.Excluded)) {
		if !known[id] {
			result.UnknownOverrideIDs = append(result.UnknownOverrideIDs, id)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(overrides.Replaced)) {
		if !known[id] && !overrides.Excluded[id] {
			result.UnknownOverrideIDs = append(result.UnknownOverrideIDs, id)
		}
	}

	for _, id := range result.ExcludedAndReplaced {
		result.Warnings = append(result.Warnings, fmt.Sprintf("item %s is both excluded and replaced; exclusion applies", id))
	}
	if len(result.UnknownOverrideIDs) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("overrides reference items not in the template: %v", result.UnknownOverrideIDs))
	}
	if len(result.DuplicateItemIDs) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("template lists items more than once: %v", result.DuplicateItemIDs))
	}

	return result
}
