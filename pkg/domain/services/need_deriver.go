package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

// ComputeServiceNeeds derives the needs of one service from its template
// items and overrides. Template items come first, then added items, each
// in input order. Items whose rounded quantity is zero are skipped.
func ComputeServiceNeeds(
	pax int,
	format entities.ServiceFormat,
	templateItems []entities.MenuTemplateItem,
	overrides entities.ServiceOverrides,
) ([]entities.Need, error) {
	if pax < 0 {
		return nil, fmt.Errorf("%w: pax cannot be negative, got %d", entities.ErrInvalidQuantity, pax)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("unknown service format %q", format)
	}

	needs := make([]entities.Need, 0, len(templateItems)+len(overrides.Added))
	if pax == 0 {
		return needs, nil
	}

	paxQty := decimal.NewFromInt(int64(pax))

	for _, item := range templateItems {
		if overrides.IsExcluded(item.ID) {
			continue
		}
		if replacement, ok := overrides.Replacement(item.ID); ok {
			item = mergeReplacement(item, replacement)
		}
		need, err := deriveNeed(item, paxQty, format)
		if err != nil {
			return nil, err
		}
		if need.QtyRounded.IsPositive() {
			needs = append(needs, need)
		}
	}

	for _, item := range overrides.Added {
		need, err := deriveNeed(item, paxQty, format)
		if err != nil {
			return nil, err
		}
		if need.QtyRounded.IsPositive() {
			needs = append(needs, need)
		}
	}

	return needs, nil
}

func deriveNeed(item entities.MenuTemplateItem, pax decimal.Decimal, format entities.ServiceFormat) (entities.Need, error) {
	gross := pax.Mul(item.RatioFor(format))
	rounded, err := EvaluateRounding(gross, item.RoundingRule, item.PackSize)
	if err != nil {
		return entities.Need{}, fmt.Errorf("failed to round need for item %s: %w", item.Name, err)
	}
	return entities.Need{
		Label:      item.Name,
		Section:    item.Section,
		Unit:       item.Unit,
		Qty:        gross,
		QtyRounded: rounded,
	}, nil
}

// mergeReplacement applies a replacement definition. Ratios always come from
// the replacement; blank descriptive fields keep the original's values.
func mergeReplacement(original, replacement entities.MenuTemplateItem) entities.MenuTemplateItem {
	merged := replacement
	merged.ID = original.ID
	if merged.Name == "" {
		merged.Name = original.Name
	}
	if merged.Section == "" {
		merged.Section = original.Section
	}
	if merged.Unit == "" {
		merged.Unit = original.Unit
	}
	if merged.RoundingRule == "" {
		merged.RoundingRule = original.RoundingRule
		if merged.PackSize == nil {
			merged.PackSize = original.PackSize
		}
	}
	return merged
}
