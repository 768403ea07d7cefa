package procurement

import (
	"context"
	"sync"
	"testing"

	"github.com/vsinha/eventprocure/pkg/application/dto"
	"github.com/vsinha/eventprocure/pkg/application/services/demand"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/infrastructure/events"
	"github.com/vsinha/eventprocure/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/eventprocure/pkg/infrastructure/testing"
)

func newTestService(store *memory.Store, audit events.EventStore) *Service {
	synth := NewSynthesizer(store.Events, store.Stock, store.Ledger, store.EventOrders, store.Catalog, audit, nil)
	agg := demand.NewAggregator(store.Events, store.Menus, nil)
	return NewService(store.Events, store.Catalog, store.EventOrders, agg, synth, audit, nil)
}

func planGala(t *testing.T, svc *Service) *dto.SynthesisResult {
	t.Helper()
	res, err := svc.PlanEvent(context.Background(), testhelpers.GalaEventID)
	if err != nil {
		t.Fatalf("PlanEvent failed: %v", err)
	}
	return res.Synthesis
}

// linesByItem returns every line of the event keyed by supplier item
func linesByItem(t *testing.T, store *memory.Store, eventID string) map[string]entities.EventPurchaseOrderLine {
	t.Helper()
	ctx := context.Background()
	orders, err := store.EventOrders.ListOrders(ctx, eventID)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	result := make(map[string]entities.EventPurchaseOrderLine)
	for _, o := range orders {
		lines, err := store.EventOrders.GetLines(ctx, o.ID)
		if err != nil {
			t.Fatalf("GetLines failed: %v", err)
		}
		for _, l := range lines {
			if _, dup := result[l.SupplierItemID]; dup {
				t.Fatalf("supplier item %s appears on more than one line", l.SupplierItemID)
			}
			result[l.SupplierItemID] = l
		}
	}
	return result
}

func TestSynthesizer_GalaDraftOrders(t *testing.T) {
	store := testhelpers.BuildGalaTestData()
	svc := newTestService(store, nil)

	res := planGala(t, svc)
	if res.Status != dto.SynthesisCreated {
		t.Fatalf("expected created, got %s (%+v)", res.Status, res)
	}
	if len(res.OrderIDs) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(res.OrderIDs))
	}

	orders, _ := store.EventOrders.ListOrders(context.Background(), testhelpers.GalaEventID)
	expectedOrders := []struct {
		number   string
		supplier string
	}{
		{"EV-7C9E6679-1", "SUP-BUTCHER"},
		{"EV-7C9E6679-2", "SUP-DELI"},
		{"EV-7C9E6679-3", "SUP-DRINKS"},
	}
	for i, e := range expectedOrders {
		if orders[i].OrderNumber != e.number || orders[i].SupplierID != e.supplier {
			t.Errorf("order %d: expected %s for %s, got %s for %s", i, e.number, e.supplier, orders[i].OrderNumber, orders[i].SupplierID)
		}
		if orders[i].Status != entities.EventOrderDraft {
			t.Errorf("order %d: expected draft, got %s", i, orders[i].Status)
		}
	}

	lines := linesByItem(t, store, testhelpers.GalaEventID)
	expectedLines := []struct {
		item    string
		gross   string
		onHand  string
		onOrder string
		qty     string
		total   string
	}{
		{"SI-BEEF", "8", "3", "0", "5", "192.5"},
		{"SI-CAN", "100", "0", "20", "80", "96"},
		{"SI-BREAD", "40", "0", "0", "40", "14"},
		{"SI-WAT", "54", "6", "0", "48", "100.8"},
	}
	if len(lines) != len(expectedLines) {
		t.Fatalf("expected %d lines, got %d", len(expectedLines), len(lines))
	}
	for _, e := range expectedLines {
		l, ok := lines[e.item]
		if !ok {
			t.Errorf("missing line for %s", e.item)
			continue
		}
		if !l.GrossQty.Equal(testhelpers.Dec(e.gross)) || !l.OnHandQty.Equal(testhelpers.Dec(e.onHand)) ||
			!l.OnOrderQty.Equal(testhelpers.Dec(e.onOrder)) || !l.Qty.Equal(testhelpers.Dec(e.qty)) {
			t.Errorf("%s: expected gross %s on hand %s on order %s qty %s, got %s %s %s %s",
				e.item, e.gross, e.onHand, e.onOrder, e.qty, l.GrossQty, l.OnHandQty, l.OnOrderQty, l.Qty)
		}
		if !l.LineTotal.Equal(testhelpers.Dec(e.total)) {
			t.Errorf("%s: expected line total %s, got %s", e.item, e.total, l.LineTotal)
		}
		if l.Freeze || l.UnitMismatch {
			t.Errorf("%s: new lines must not be frozen or mismatched", e.item)
		}
	}
}

func TestSynthesizer_Idempotent(t *testing.T) {
	store := testhelpers.BuildGalaTestData()
	svc := newTestService(store, nil)

	first := planGala(t, svc)
	firstLines := linesByItem(t, store, testhelpers.GalaEventID)
	second := planGala(t, svc)
	secondLines := linesByItem(t, store, testhelpers.GalaEventID)

	if len(first.OrderIDs) != len(second.OrderIDs) {
		t.Fatalf("order count changed: %d vs %d", len(first.OrderIDs), len(second.OrderIDs))
	}
	for i := range first.OrderIDs {
		if first.OrderIDs[i] != second.OrderIDs[i] {
			t.Errorf("order %d changed id: %s vs %s", i, first.OrderIDs[i], second.OrderIDs[i])
		}
	}
	if len(second.RemovedOrderIDs) != 0 {
		t.Errorf("expected nothing removed, got %v", second.RemovedOrderIDs)
	}
	for item, l := range firstLines {
		if !secondLines[item].Qty.Equal(l.Qty) {
			t.Errorf("%s: quantity changed from %s to %s", item, l.Qty, secondLines[item].Qty)
		}
	}
	orders, _ := store.EventOrders.ListOrders(context.Background(), testhelpers.GalaEventID)
	if len(orders) != 3 {
		t.Errorf("expected 3 orders after rerun, got %d", len(orders))
	}
}

func TestSynthesizer_FrozenLineSurvives(t *testing.T) {
	ctx := context.Background()
	store := testhelpers.BuildGalaTestData()
	svc := newTestService(store, nil)

	planGala(t, svc)
	beef := linesByItem(t, store, testhelpers.GalaEventID)["SI-BEEF"]
	if err := svc.SetLineFreeze(ctx, beef.OrderID, beef.ID, true); err != nil {
		t.Fatalf("SetLineFreeze failed: %v", err)
	}

	// enough beef arrives that regeneration would drop the line entirely
	if err := store.Stock.Adjust(ctx, testhelpers.GalaHotelID, "SI-BEEF", testhelpers.Dec("20")); err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	// and more bread is needed, which must still be regenerated
	store.Menus.SetOverrides("S2", entities.ServiceOverrides{Added: []entities.MenuTemplateItem{
		testhelpers.MustTemplateItem("", "Bread roll", entities.UnitEach, "1", "0", entities.RoundCeilUnit, nil),
	}})

	res := planGala(t, svc)
	if res.Status != dto.SynthesisCreated {
		t.Fatalf("expected created, got %s", res.Status)
	}

	lines := linesByItem(t, store, testhelpers.GalaEventID)
	kept, ok := lines["SI-BEEF"]
	if !ok {
		t.Fatal("frozen beef line was removed")
	}
	if kept.ID != beef.ID || !kept.Freeze || !kept.Qty.Equal(beef.Qty) {
		t.Errorf("frozen line changed: before %+v after %+v", beef, kept)
	}
	if !lines["SI-BREAD"].Qty.Equal(testhelpers.Dec("80")) {
		t.Errorf("expected bread regenerated to 80, got %s", lines["SI-BREAD"].Qty)
	}
	if len(res.OrderIDs) != 3 {
		t.Errorf("expected butcher order kept alive by its frozen line, got %d orders", len(res.OrderIDs))
	}
}

func TestSynthesizer_FrozenLineSuppressesItemOnly(t *testing.T) {
	ctx := context.Background()
	store := testhelpers.BuildGalaTestData()
	svc := newTestService(store, nil)

	planGala(t, svc)
	canapes := linesByItem(t, store, testhelpers.GalaEventID)["SI-CAN"]
	if err := svc.SetLineFreeze(ctx, canapes.OrderID, canapes.ID, true); err != nil {
		t.Fatalf("SetLineFreeze failed: %v", err)
	}

	store.Events.AddService(testhelpers.MustService("S4", testhelpers.GalaEventID, "Second reception", 50, entities.FormatStanding, "TPL-RECEPTION"))
	planGala(t, svc)

	lines, _ := store.EventOrders.GetLines(ctx, canapes.OrderID)
	count := 0
	for _, l := range lines {
		if l.SupplierItemID == "SI-CAN" {
			count++
			if !l.Qty.Equal(testhelpers.Dec("80")) {
				t.Errorf("frozen canapé quantity changed to %s", l.Qty)
			}
		}
	}
	if count != 1 {
		t.Errorf("expected the frozen line to suppress regeneration, found %d canapé lines", count)
	}
}

func TestSynthesizer_UnknownLabelAborts(t *testing.T) {
	ctx := context.Background()
	store := testhelpers.BuildGalaTestData()
	audit := events.NewInMemoryEventStore(nil)
	svc := newTestService(store, audit)

	planGala(t, svc)
	before := linesByItem(t, store, testhelpers.GalaEventID)

	store.Menus.SetOverrides("S2", entities.ServiceOverrides{Added: []entities.MenuTemplateItem{
		testhelpers.MustTemplateItem("", "Black truffle", entities.UnitKg, "0.01", "0", entities.RoundNone, nil),
	}})
	// stock change that would otherwise alter beef
	_ = store.Stock.Adjust(ctx, testhelpers.GalaHotelID, "SI-BEEF", testhelpers.Dec("2"))

	res := planGala(t, svc)
	if res.Status != dto.SynthesisUnknownLabel {
		t.Fatalf("expected unknown_labels, got %s", res.Status)
	}
	if len(res.Unknown) != 1 || res.Unknown[0].Label != "Black truffle" {
		t.Errorf("expected Black truffle unknown, got %+v", res.Unknown)
	}
	if len(res.OrderIDs) != 0 {
		t.Errorf("aborted run must not report orders")
	}

	after := linesByItem(t, store, testhelpers.GalaEventID)
	for item, l := range before {
		if after[item].ID != l.ID || !after[item].Qty.Equal(l.Qty) {
			t.Errorf("%s changed by an aborted run", item)
		}
	}

	evs, _ := audit.ReadEvents(events.EventOrderStream(testhelpers.GalaEventID), 1)
	last := evs[len(evs)-1]
	if last.Type() != events.SynthesisAbortedEvent {
		t.Errorf("expected abort to be recorded, last event is %s", last.Type())
	}
}

func TestSynthesizer_UnitMismatchAborts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(entities.PurchasingSettings{})
	store.Events.SaveEvent(entities.Event{ID: "E1", OrgID: "ORG1", HotelID: "H1"})
	synth := NewSynthesizer(store.Events, store.Stock, store.Ledger, store.EventOrders, store.Catalog, nil, nil)

	items := []entities.SupplierItem{
		{ID: "SI-SAL", SupplierID: "SUP-A", Name: "Salmon", PurchaseUnit: entities.UnitEach, RoundingRule: entities.RoundNone},
		{ID: "SI-LEM", SupplierID: "SUP-A", Name: "Lemon", PurchaseUnit: entities.UnitEach, RoundingRule: entities.RoundCeilUnit},
	}
	needs := []entities.Need{
		{Label: "Salmon", Unit: entities.UnitKg, Qty: testhelpers.Dec("4"), QtyRounded: testhelpers.Dec("4")},
		{Label: "Lemon", Unit: entities.UnitEach, Qty: testhelpers.Dec("10"), QtyRounded: testhelpers.Dec("10")},
	}

	res, err := synth.SynthesizeEventDraftOrders(ctx, dto.SynthesisRequest{
		OrgID: "ORG1", HotelID: "H1", EventID: "E1", Needs: needs, SupplierItems: items,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != dto.SynthesisUnitMismatch {
		t.Fatalf("expected unit_mismatch, got %s", res.Status)
	}
	if len(res.Mismatches) != 1 || res.Mismatches[0].SupplierItemID != "SI-SAL" ||
		res.Mismatches[0].NeedUnit != entities.UnitKg || res.Mismatches[0].PurchaseUnit != entities.UnitEach {
		t.Errorf("unexpected mismatches %+v", res.Mismatches)
	}

	orders, _ := store.EventOrders.ListOrders(ctx, "E1")
	if len(orders) != 0 {
		t.Errorf("expected no orders written, got %d", len(orders))
	}
}

func TestSynthesizer_MixedNeedUnitsMismatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(entities.PurchasingSettings{})
	store.Events.SaveEvent(entities.Event{ID: "E1", OrgID: "ORG1", HotelID: "H1"})
	synth := NewSynthesizer(store.Events, store.Stock, store.Ledger, store.EventOrders, store.Catalog, nil, nil)

	items := []entities.SupplierItem{{ID: "SI-BUT", SupplierID: "SUP-A", Name: "Butter", PurchaseUnit: entities.UnitKg, RoundingRule: entities.RoundNone}}
	needs := []entities.Need{
		{Label: "Butter", Unit: entities.UnitKg, QtyRounded: testhelpers.Dec("1")},
		{Label: "butter", Unit: entities.UnitEach, QtyRounded: testhelpers.Dec("30")},
	}

	res, err := synth.SynthesizeEventDraftOrders(ctx, dto.SynthesisRequest{
		OrgID: "ORG1", HotelID: "H1", EventID: "E1", Needs: needs, SupplierItems: items,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != dto.SynthesisUnitMismatch || len(res.Mismatches) != 1 || res.Mismatches[0].NeedUnit != entities.UnitEach {
		t.Errorf("expected a unit mismatch on the piece-counted need, got %+v", res)
	}
}

func TestSynthesizer_AggregatesDuplicateItems(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(entities.PurchasingSettings{})
	store.Events.SaveEvent(entities.Event{ID: "E1", OrgID: "ORG1", HotelID: "H1"})
	synth := NewSynthesizer(store.Events, store.Stock, store.Ledger, store.EventOrders, store.Catalog, nil, nil)

	items := []entities.SupplierItem{{ID: "SI-PF", SupplierID: "SUP-A", Name: "Petit four", PurchaseUnit: entities.UnitEach, RoundingRule: entities.RoundNone}}
	needs := []entities.Need{
		{Label: "Petit four", Unit: entities.UnitEach, QtyRounded: testhelpers.Dec("3")},
		{Label: "Petit Four", Unit: entities.UnitEach, QtyRounded: testhelpers.Dec("4")},
	}

	res, err := synth.SynthesizeEventDraftOrders(ctx, dto.SynthesisRequest{
		OrgID: "ORG1", HotelID: "H1", EventID: "E1", Needs: needs, SupplierItems: items,
	})
	if err != nil || res.Status != dto.SynthesisCreated {
		t.Fatalf("expected created, got %+v, %v", res, err)
	}
	lines := linesByItem(t, store, "E1")
	if !lines["SI-PF"].GrossQty.Equal(testhelpers.Dec("7")) || !lines["SI-PF"].Qty.Equal(testhelpers.Dec("7")) {
		t.Errorf("expected gross and qty 7, got %s / %s", lines["SI-PF"].GrossQty, lines["SI-PF"].Qty)
	}
}

func TestSynthesizer_EmptyDraftRemoved(t *testing.T) {
	ctx := context.Background()
	store := testhelpers.BuildGalaTestData()
	svc := newTestService(store, nil)

	first := planGala(t, svc)
	orders, _ := store.EventOrders.ListOrders(ctx, testhelpers.GalaEventID)
	butcherOrderID := orders[0].ID

	_ = store.Stock.Adjust(ctx, testhelpers.GalaHotelID, "SI-BEEF", testhelpers.Dec("50"))

	second := planGala(t, svc)
	if len(second.RemovedOrderIDs) != 1 || second.RemovedOrderIDs[0] != butcherOrderID {
		t.Fatalf("expected butcher order %s removed, got %v", butcherOrderID, second.RemovedOrderIDs)
	}
	if len(second.OrderIDs) != len(first.OrderIDs)-1 {
		t.Errorf("expected %d orders, got %d", len(first.OrderIDs)-1, len(second.OrderIDs))
	}
	if _, err := store.EventOrders.GetOrder(ctx, butcherOrderID); err == nil {
		t.Errorf("empty draft must not persist")
	}
}

func TestSynthesizer_NeverCreatesEmptyDraft(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(entities.PurchasingSettings{})
	store.Events.SaveEvent(entities.Event{ID: "E1", OrgID: "ORG1", HotelID: "H1"})
	store.Stock.LoadStockLevels([]entities.StockLevel{{HotelID: "H1", SupplierItemID: "SI-1", OnHand: testhelpers.Dec("100")}})
	synth := NewSynthesizer(store.Events, store.Stock, store.Ledger, store.EventOrders, store.Catalog, nil, nil)

	res, err := synth.SynthesizeEventDraftOrders(ctx, dto.SynthesisRequest{
		OrgID: "ORG1", HotelID: "H1", EventID: "E1",
		Needs:         []entities.Need{{Label: "Olive oil", Unit: entities.UnitKg, QtyRounded: testhelpers.Dec("2")}},
		SupplierItems: []entities.SupplierItem{{ID: "SI-1", SupplierID: "SUP-A", Name: "Olive oil", PurchaseUnit: entities.UnitKg, RoundingRule: entities.RoundNone}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.OrderIDs) != 0 || len(res.RemovedOrderIDs) != 0 {
		t.Errorf("expected no orders at all, got %+v", res)
	}
	orders, _ := store.EventOrders.ListOrders(ctx, "E1")
	if len(orders) != 0 {
		t.Errorf("expected no stored orders, got %d", len(orders))
	}
}

func TestSynthesizer_BufferSettings(t *testing.T) {
	store := testhelpers.BuildGalaTestData()
	store.Catalog.SetPurchasingSettings(testhelpers.GalaOrgID, entities.PurchasingSettings{
		BufferPercent: testhelpers.Dec("10"),
		BufferQty:     testhelpers.Dec("1"),
	})
	svc := newTestService(store, nil)
	planGala(t, svc)

	lines := linesByItem(t, store, testhelpers.GalaEventID)
	// 8 - 3 + (1 + 0.8)
	if !lines["SI-BEEF"].NetQty.Equal(testhelpers.Dec("6.8")) {
		t.Errorf("expected beef net 6.8, got %s", lines["SI-BEEF"].NetQty)
	}
	// 54 - 6 + (1 + 5.4) = 54.4 -> packs of 6
	if !lines["SI-WAT"].Qty.Equal(testhelpers.Dec("60")) {
		t.Errorf("expected water 60, got %s", lines["SI-WAT"].Qty)
	}
}

func TestSynthesizer_OtherEventsCountAsOnOrder(t *testing.T) {
	ctx := context.Background()
	store := testhelpers.BuildGalaTestData()
	svc := newTestService(store, nil)
	planGala(t, svc)

	store.Events.SaveEvent(entities.Event{ID: "E-OTHER", OrgID: testhelpers.GalaOrgID, HotelID: testhelpers.GalaHotelID,
		StartsAt: testhelpers.GalaStart.AddDate(0, 0, 7), EndsAt: testhelpers.GalaStart.AddDate(0, 0, 7)})
	synth := NewSynthesizer(store.Events, store.Stock, store.Ledger, store.EventOrders, store.Catalog, nil, nil)
	items, _ := store.Catalog.ListSupplierItems(ctx, testhelpers.GalaOrgID)

	res, err := synth.SynthesizeEventDraftOrders(ctx, dto.SynthesisRequest{
		OrgID: testhelpers.GalaOrgID, HotelID: testhelpers.GalaHotelID, EventID: "E-OTHER",
		Needs:         []entities.Need{{Label: "Bread roll", Unit: entities.UnitEach, QtyRounded: testhelpers.Dec("50")}},
		SupplierItems: items,
	})
	if err != nil || res.Status != dto.SynthesisCreated {
		t.Fatalf("expected created, got %+v, %v", res, err)
	}
	lines := linesByItem(t, store, "E-OTHER")
	// the gala's draft already orders 40 rolls
	if !lines["SI-BREAD"].OnOrderQty.Equal(testhelpers.Dec("40")) || !lines["SI-BREAD"].Qty.Equal(testhelpers.Dec("10")) {
		t.Errorf("expected on order 40 and qty 10, got %s / %s", lines["SI-BREAD"].OnOrderQty, lines["SI-BREAD"].Qty)
	}
}

func TestSynthesizer_ConcurrentRegenerationsKeepOneDraftPerSupplier(t *testing.T) {
	store := testhelpers.BuildGalaTestData()
	svc := newTestService(store, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.PlanEvent(context.Background(), testhelpers.GalaEventID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent PlanEvent failed: %v", err)
	}

	orders, _ := store.EventOrders.ListOrders(context.Background(), testhelpers.GalaEventID)
	drafts := make(map[string]int)
	for _, o := range orders {
		if o.Status == entities.EventOrderDraft {
			drafts[o.SupplierID]++
		}
	}
	if len(drafts) != 3 {
		t.Errorf("expected drafts for 3 suppliers, got %v", drafts)
	}
	for supplier, n := range drafts {
		if n != 1 {
			t.Errorf("supplier %s has %d drafts", supplier, n)
		}
	}
	linesByItem(t, store, testhelpers.GalaEventID)
}
