package services

import (
	"testing"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Crème  Brûlée ", "creme brulee"},
		{"CRÈME FRAÎCHE", "creme fraiche"},
		{"Straße-Brot", "strasse-brot"},
		{"Işık çikolata", "isik cikolata"},
		{"Smørrebrød", "smorrebrod"},
		{"tab\tand\nnewline", "tab and newline"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeLabel(tt.input); got != tt.expected {
				t.Errorf("NormalizeLabel(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolveNeedsToCatalog(t *testing.T) {
	items := []entities.SupplierItem{
		{ID: "SI1", SupplierID: "SUP-A", Name: "Crème fraîche", PurchaseUnit: entities.UnitKg},
		{ID: "SI2", SupplierID: "SUP-B", Name: "Baguette", PurchaseUnit: entities.UnitEach},
		{ID: "SI3", SupplierID: "SUP-B", Name: "baguette", PurchaseUnit: entities.UnitEach},
		{ID: "SI4", SupplierID: "SUP-A", Name: "Salmon fillet", PurchaseUnit: entities.UnitKg},
	}
	aliases := []entities.Alias{
		{NormalizedLabel: "smoked salmon", SupplierItemID: "SI4"},
		{NormalizedLabel: "bread roll", SupplierItemID: "GONE"},
	}
	needs := []entities.Need{
		{Label: "CREME FRAICHE", Unit: entities.UnitKg, QtyRounded: dec("2")},
		{Label: "Smoked  Salmon", Unit: entities.UnitKg, QtyRounded: dec("3")},
		{Label: "Baguette", Unit: entities.UnitEach, QtyRounded: dec("20")},
		{Label: "Bread roll", Unit: entities.UnitEach, QtyRounded: dec("40")},
		{Label: "Truffle", Unit: entities.UnitKg, QtyRounded: dec("1")},
	}

	res := ResolveNeedsToCatalog(needs, aliases, items)

	if res.Complete() {
		t.Fatalf("expected unresolved needs")
	}
	if len(res.Mapped) != 3 {
		t.Fatalf("expected 3 mapped needs, got %d: %+v", len(res.Mapped), res.Mapped)
	}

	expected := []struct {
		label    string
		itemID   string
		viaAlias bool
	}{
		{"CREME FRAICHE", "SI1", false},
		{"Smoked  Salmon", "SI4", true},
		{"Baguette", "SI2", false},
	}
	for i, e := range expected {
		m := res.Mapped[i]
		if m.Need.Label != e.label || m.SupplierItem.ID != e.itemID || m.ViaAlias != e.viaAlias {
			t.Errorf("mapped %d: expected %s -> %s (alias=%v), got %s -> %s (alias=%v)",
				i, e.label, e.itemID, e.viaAlias, m.Need.Label, m.SupplierItem.ID, m.ViaAlias)
		}
	}

	if len(res.Unknown) != 2 || res.Unknown[0].Label != "Bread roll" || res.Unknown[1].Label != "Truffle" {
		t.Errorf("expected Bread roll and Truffle unknown, got %+v", res.Unknown)
	}
}

func TestResolveNeedsToCatalog_AliasBeatsName(t *testing.T) {
	items := []entities.SupplierItem{
		{ID: "SI1", Name: "Butter"},
		{ID: "SI2", Name: "Butter unsalted 82%"},
	}
	aliases := []entities.Alias{{NormalizedLabel: "butter", SupplierItemID: "SI2"}}

	res := ResolveNeedsToCatalog([]entities.Need{{Label: "Butter"}}, aliases, items)
	if !res.Complete() || res.Mapped[0].SupplierItem.ID != "SI2" {
		t.Errorf("expected alias to win over name match, got %+v", res)
	}
}

func TestResolveNeedsToCatalog_Empty(t *testing.T) {
	res := ResolveNeedsToCatalog(nil, nil, nil)
	if !res.Complete() || len(res.Mapped) != 0 {
		t.Errorf("expected empty complete resolution, got %+v", res)
	}
}
