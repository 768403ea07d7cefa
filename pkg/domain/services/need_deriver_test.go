package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

func canapes() entities.MenuTemplateItem {
	return entities.MenuTemplateItem{
		ID:                  "T1",
		Name:                "Canapés",
		Section:             "starters",
		Unit:                entities.UnitEach,
		QtyPerSeatedGuest:   decimal.Zero,
		QtyPerStandingGuest: dec("2"),
		RoundingRule:        entities.RoundCeilUnit,
	}
}

func salmon() entities.MenuTemplateItem {
	return entities.MenuTemplateItem{
		ID:                  "T2",
		Name:                "Smoked salmon",
		Section:             "starters",
		Unit:                entities.UnitKg,
		QtyPerSeatedGuest:   dec("0.08"),
		QtyPerStandingGuest: dec("0.05"),
		RoundingRule:        entities.RoundCeilPack,
		PackSize:            decPtr("0.5"),
	}
}

func TestComputeServiceNeeds_Basic(t *testing.T) {
	needs, err := ComputeServiceNeeds(50, entities.FormatStanding, []entities.MenuTemplateItem{canapes()}, entities.ServiceOverrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(needs) != 1 {
		t.Fatalf("expected 1 need, got %d", len(needs))
	}
	if needs[0].Label != "Canapés" || !needs[0].Qty.Equal(dec("100")) || !needs[0].QtyRounded.Equal(dec("100")) {
		t.Errorf("unexpected need %+v", needs[0])
	}
}

func TestComputeServiceNeeds_Overrides(t *testing.T) {
	items := []entities.MenuTemplateItem{canapes(), salmon()}

	tests := []struct {
		name      string
		overrides entities.ServiceOverrides
		labels    []string
		qtys      []string
	}{
		{
			name:      "no_overrides",
			overrides: entities.ServiceOverrides{},
			labels:    []string{"Canapés", "Smoked salmon"},
			qtys:      []string{"100", "2.5"},
		},
		{
			name:      "excluded",
			overrides: entities.ServiceOverrides{Excluded: map[string]bool{"T1": true}},
			labels:    []string{"Smoked salmon"},
			qtys:      []string{"2.5"},
		},
		{
			name: "replaced_uses_replacement_ratio",
			overrides: entities.ServiceOverrides{Replaced: map[string]entities.MenuTemplateItem{
				"T1": {QtyPerStandingGuest: dec("1")},
			}},
			labels: []string{"Canapés", "Smoked salmon"},
			qtys:   []string{"50", "2.5"},
		},
		{
			name: "replaced_uses_replacement_rule",
			overrides: entities.ServiceOverrides{Replaced: map[string]entities.MenuTemplateItem{
				"T2": {Name: "Gravlax", Unit: entities.UnitKg, QtyPerStandingGuest: dec("0.05"), RoundingRule: entities.RoundNone},
			}},
			labels: []string{"Canapés", "Gravlax"},
			qtys:   []string{"100", "2.5"},
		},
		{
			name: "exclusion_beats_replacement",
			overrides: entities.ServiceOverrides{
				Excluded: map[string]bool{"T1": true},
				Replaced: map[string]entities.MenuTemplateItem{"T1": {Name: "Mini quiche", Unit: entities.UnitEach, QtyPerStandingGuest: dec("3"), RoundingRule: entities.RoundNone}},
			},
			labels: []string{"Smoked salmon"},
			qtys:   []string{"2.5"},
		},
		{
			name: "added_after_template",
			overrides: entities.ServiceOverrides{Added: []entities.MenuTemplateItem{
				{Name: "Macarons", Unit: entities.UnitEach, QtyPerStandingGuest: dec("1.5"), RoundingRule: entities.RoundCeilPack, PackSize: decPtr("12")},
			}},
			labels: []string{"Canapés", "Smoked salmon", "Macarons"},
			qtys:   []string{"100", "2.5", "84"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			needs, err := ComputeServiceNeeds(50, entities.FormatStanding, items, tt.overrides)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(needs) != len(tt.labels) {
				t.Fatalf("expected %d needs, got %d: %+v", len(tt.labels), len(needs), needs)
			}
			for i, need := range needs {
				if need.Label != tt.labels[i] {
					t.Errorf("need %d: expected label %s, got %s", i, tt.labels[i], need.Label)
				}
				if !need.QtyRounded.Equal(dec(tt.qtys[i])) {
					t.Errorf("need %d (%s): expected qty %s, got %s", i, need.Label, tt.qtys[i], need.QtyRounded)
				}
			}
		})
	}
}

func TestComputeServiceNeeds_ZeroPax(t *testing.T) {
	overrides := entities.ServiceOverrides{Added: []entities.MenuTemplateItem{canapes()}}
	needs, err := ComputeServiceNeeds(0, entities.FormatSeated, []entities.MenuTemplateItem{canapes(), salmon()}, overrides)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(needs) != 0 {
		t.Errorf("expected no needs for zero pax, got %+v", needs)
	}
}

func TestComputeServiceNeeds_SkipsZeroRatio(t *testing.T) {
	// canapés have no seated ratio
	needs, err := ComputeServiceNeeds(20, entities.FormatSeated, []entities.MenuTemplateItem{canapes(), salmon()}, entities.ServiceOverrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(needs) != 1 || needs[0].Label != "Smoked salmon" {
		t.Fatalf("expected only salmon, got %+v", needs)
	}
	if !needs[0].Qty.Equal(dec("1.6")) || !needs[0].QtyRounded.Equal(dec("2")) {
		t.Errorf("expected 1.6 rounded to 2, got %s / %s", needs[0].Qty, needs[0].QtyRounded)
	}
}

func TestComputeServiceNeeds_Errors(t *testing.T) {
	if _, err := ComputeServiceNeeds(-1, entities.FormatSeated, nil, entities.ServiceOverrides{}); !errors.Is(err, entities.ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity for negative pax, got %v", err)
	}

	broken := salmon()
	broken.PackSize = nil
	_, err := ComputeServiceNeeds(10, entities.FormatSeated, []entities.MenuTemplateItem{broken}, entities.ServiceOverrides{})
	if !errors.Is(err, entities.ErrInvalidPackSize) {
		t.Errorf("expected ErrInvalidPackSize, got %v", err)
	}
}
