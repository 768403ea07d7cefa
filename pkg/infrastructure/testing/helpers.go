package testing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/infrastructure/repositories/memory"
)

const (
	GalaOrgID   = "ORG1"
	GalaHotelID = "H1"
	GalaEventID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	// OtherEventID holds a reservation overlapping the gala
	OtherEventID = "b1a2c3d4-0000-4000-8000-000000000002"
)

// GalaStart is when the gala begins
var GalaStart = time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)

// Dec parses a decimal literal, panicking on malformed input
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DecPtr is Dec returning a pointer
func DecPtr(s string) *decimal.Decimal {
	d := Dec(s)
	return &d
}

// MustTemplateItem is a helper for tests - panics on validation error
func MustTemplateItem(id, name string, unit entities.Unit, perSeated, perStanding string, rule entities.RoundingRule, pack *decimal.Decimal) entities.MenuTemplateItem {
	item, err := entities.NewMenuTemplateItem(id, name, "", unit, Dec(perSeated), Dec(perStanding), rule, pack)
	if err != nil {
		panic(err)
	}
	return *item
}

// MustService is a helper for tests - panics on validation error
func MustService(id, eventID, name string, pax int, format entities.ServiceFormat, templateID string) entities.EventService {
	svc, err := entities.NewEventService(id, eventID, name, pax, format, templateID)
	if err != nil {
		panic(err)
	}
	return *svc
}

// BuildGalaTestData builds a summer gala with a standing reception, a
// seated dinner and a late snack that has no menu applied.
//
// Expected net-to-buy with zero buffers:
//
//	SI-BEEF  SUP-BUTCHER  gross 8   on hand 3             -> 5 kg
//	SI-CAN   SUP-DELI     gross 100 on order 20           -> 80
//	SI-BREAD SUP-DELI     gross 40                        -> 40
//	SI-WAT   SUP-DRINKS   gross 54  on hand 12-6 reserved -> 48 (packs of 6)
func BuildGalaTestData() *memory.Store {
	store := memory.NewStore(entities.PurchasingSettings{})

	store.Events.SaveEvent(entities.Event{
		ID:       GalaEventID,
		OrgID:    GalaOrgID,
		HotelID:  GalaHotelID,
		Name:     "Summer gala",
		StartsAt: GalaStart,
		EndsAt:   GalaStart.Add(6 * time.Hour),
	})

	reception := MustService("S1", GalaEventID, "Reception", 50, entities.FormatStanding, "TPL-RECEPTION")
	reception.StartsAt = GalaStart
	dinner := MustService("S2", GalaEventID, "Dinner", 40, entities.FormatSeated, "TPL-DINNER")
	dinner.StartsAt = GalaStart.Add(90 * time.Minute)
	snack := MustService("S3", GalaEventID, "Late snack", 30, entities.FormatStanding, "")
	snack.StartsAt = GalaStart.Add(5 * time.Hour)
	store.Events.AddService(reception)
	store.Events.AddService(dinner)
	store.Events.AddService(snack)

	store.Menus.AddTemplateItem("TPL-RECEPTION", MustTemplateItem("R1", "Canapés", entities.UnitEach, "0", "2", entities.RoundCeilUnit, nil))
	store.Menus.AddTemplateItem("TPL-RECEPTION", MustTemplateItem("R2", "Sparkling water", entities.UnitEach, "0.5", "0.5", entities.RoundCeilPack, DecPtr("6")))
	store.Menus.AddTemplateItem("TPL-DINNER", MustTemplateItem("D1", "Beef tenderloin", entities.UnitKg, "0.2", "0.15", entities.RoundCeilPack, DecPtr("0.5")))
	store.Menus.AddTemplateItem("TPL-DINNER", MustTemplateItem("D2", "Sparkling water", entities.UnitEach, "0.5", "0.5", entities.RoundCeilPack, DecPtr("6")))
	store.Menus.AddTemplateItem("TPL-DINNER", MustTemplateItem("D3", "Bread roll", entities.UnitEach, "1", "0", entities.RoundCeilUnit, nil))

	store.Catalog.AddSupplierItem(GalaOrgID, entities.SupplierItem{
		ID: "SI-CAN", SupplierID: "SUP-DELI", Name: "Canapés", PurchaseUnit: entities.UnitEach,
		RoundingRule: entities.RoundCeilUnit, PricePerUnit: DecPtr("1.20"),
	})
	store.Catalog.AddSupplierItem(GalaOrgID, entities.SupplierItem{
		ID: "SI-WAT", SupplierID: "SUP-DRINKS", Name: "Sparkling water 75cl", PurchaseUnit: entities.UnitEach,
		RoundingRule: entities.RoundCeilPack, PackSize: DecPtr("6"), PricePerUnit: DecPtr("2.10"),
	})
	store.Catalog.AddSupplierItem(GalaOrgID, entities.SupplierItem{
		ID: "SI-BEEF", SupplierID: "SUP-BUTCHER", Name: "Beef tenderloin", PurchaseUnit: entities.UnitKg,
		RoundingRule: entities.RoundNone, PricePerUnit: DecPtr("38.50"),
	})
	store.Catalog.AddSupplierItem(GalaOrgID, entities.SupplierItem{
		ID: "SI-BREAD", SupplierID: "SUP-DELI", Name: "Bread roll", PurchaseUnit: entities.UnitEach,
		RoundingRule: entities.RoundCeilUnit, PricePerUnit: DecPtr("0.35"),
	})
	if err := store.Catalog.SaveAlias(context.Background(), entities.Alias{OrgID: GalaOrgID, NormalizedLabel: "sparkling water", SupplierItemID: "SI-WAT"}); err != nil {
		panic(err)
	}

	store.Stock.LoadStockLevels([]entities.StockLevel{
		{HotelID: GalaHotelID, SupplierItemID: "SI-BEEF", OnHand: Dec("3")},
		{HotelID: GalaHotelID, SupplierItemID: "SI-WAT", OnHand: Dec("12")},
	})
	reservation, err := entities.NewStockReservation(GalaHotelID, OtherEventID, "SI-WAT", Dec("6"),
		entities.TimeWindow{From: GalaStart.Add(-2 * time.Hour), To: GalaStart.Add(time.Hour)})
	if err != nil {
		panic(err)
	}
	store.Stock.AddReservation(*reservation)

	line, err := entities.NewPurchaseOrderLine("POL-1", "SI-CAN", "Canapés", Dec("20"), entities.UnitEach, DecPtr("1.20"))
	if err != nil {
		panic(err)
	}
	if err := store.PurchaseOrders.Save(context.Background(), &entities.PurchaseOrder{
		ID: "PO-1", OrgID: GalaOrgID, HotelID: GalaHotelID, SupplierID: "SUP-DELI",
		OrderNumber: "PO-2025-0001", Status: entities.POOrdered,
		Lines: []entities.PurchaseOrderLine{*line},
	}); err != nil {
		panic(err)
	}

	return store
}

