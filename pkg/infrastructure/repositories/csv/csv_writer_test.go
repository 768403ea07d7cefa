package csv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

func TestWriteScenario_ReloadsGala(t *testing.T) {
	loader := NewLoader()
	original, err := loader.LoadScenario(galaScenario)
	if err != nil {
		t.Fatalf("failed to load gala: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "copy")
	if err := WriteScenario(dir, original); err != nil {
		t.Fatalf("WriteScenario failed: %v", err)
	}
	reloaded, err := loader.LoadScenario(dir)
	if err != nil {
		t.Fatalf("failed to reload written scenario: %v", err)
	}

	counts := []struct {
		name      string
		want, got int
	}{
		{"events", len(original.Events), len(reloaded.Events)},
		{"services", len(original.Services), len(reloaded.Services)},
		{"template items", len(original.TemplateItems), len(reloaded.TemplateItems)},
		{"supplier items", len(original.SupplierItems), len(reloaded.SupplierItems)},
		{"aliases", len(original.Aliases), len(reloaded.Aliases)},
		{"stock", len(original.Stock), len(reloaded.Stock)},
		{"reservations", len(original.Reservations), len(reloaded.Reservations)},
		{"purchase orders", len(original.PurchaseOrders), len(reloaded.PurchaseOrders)},
		{"settings", len(original.Settings), len(reloaded.Settings)},
	}
	for _, c := range counts {
		if c.want != c.got {
			t.Errorf("%s: expected %d, got %d", c.name, c.want, c.got)
		}
	}

	for i, si := range original.SupplierItems {
		got := reloaded.SupplierItems[i].Item
		if got.ID != si.Item.ID || got.RoundingRule != si.Item.RoundingRule || !got.PricePerUnit.Equal(*si.Item.PricePerUnit) {
			t.Errorf("supplier item %s changed: %+v", si.Item.ID, got)
		}
	}
	for i, svc := range original.Services {
		got := reloaded.Services[i]
		if got.TemplateID != svc.TemplateID || !got.StartsAt.Equal(svc.StartsAt) || got.Pax != svc.Pax {
			t.Errorf("service %s changed: %+v", svc.ID, got)
		}
	}
}

func TestWriteScenario_Overrides(t *testing.T) {
	s, err := NewLoader().LoadScenario(writeScenario(t, map[string]string{
		OverridesFile: "service_id,kind,item_id,name,section,unit,qty_per_seated_guest,qty_per_standing_guest,rounding_rule,pack_size,notes\n" +
			"S1,exclude,T1,,,,,,,,\n" +
			"S1,add,X1,Lemon tart,desserts,unit,1,0,ceil_unit,,\n" +
			"S1,replace,T2,Sea bass,,,,,,,\n",
	}))
	if err != nil {
		t.Fatalf("LoadScenario failed: %v", err)
	}

	dir := t.TempDir()
	if err := WriteScenario(dir, s); err != nil {
		t.Fatalf("WriteScenario failed: %v", err)
	}
	reloaded, err := NewLoader().LoadScenario(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	ov := reloaded.Overrides["S1"]
	if !ov.IsExcluded("T1") {
		t.Error("expected T1 to stay excluded")
	}
	if len(ov.Added) != 1 || ov.Added[0].Name != "Lemon tart" {
		t.Errorf("expected lemon tart added, got %+v", ov.Added)
	}
	replacement, ok := ov.Replacement("T2")
	if !ok || replacement.Name != "Sea bass" {
		t.Fatalf("expected sea bass replacement, got %+v", replacement)
	}
	if !replacement.QtyPerSeatedGuest.IsZero() || replacement.Unit != "" {
		t.Errorf("expected blank replacement fields to stay blank, got %+v", replacement)
	}
}

func TestWriteScenario_SkipsEmptyOptionalFiles(t *testing.T) {
	s := &Scenario{
		Events:        []entities.Event{{ID: "E1", OrgID: "ORG1", HotelID: "H1", Name: "Lunch"}},
		Overrides:     map[string]entities.ServiceOverrides{},
		TemplateItems: nil,
	}
	dir := t.TempDir()
	if err := WriteScenario(dir, s); err != nil {
		t.Fatalf("WriteScenario failed: %v", err)
	}

	for _, name := range []string{EventsFile, ServicesFile, TemplateItemsFile, SupplierItemsFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected required file %s: %v", name, err)
		}
	}
	for _, name := range []string{OverridesFile, AliasesFile, StockFile, PurchaseOrdersFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("expected %s to be skipped", name)
		}
	}
}
