package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/eventprocure/pkg/application/dto"
	"github.com/vsinha/eventprocure/pkg/application/services/orchestration"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/infrastructure/events"
	"github.com/vsinha/eventprocure/pkg/infrastructure/repositories/memory"
)

const (
	orgID   = "ORG1"
	hotelID = "H1"
	eventID = "WEDDING-2025-09"
)

func main() {
	ctx := context.Background()

	store := memory.NewStore(entities.PurchasingSettings{BufferPercent: decimal.NewFromInt(5)})
	lunch := setupWedding(store)

	o, err := orchestration.NewOrchestrator(orchestration.MemoryRepositories(store), events.NewInMemoryEventStore(nil), nil)
	if err != nil {
		fmt.Printf("❌ Wiring failed: %v\n", err)
		return
	}

	fmt.Println("💍 Planning the wedding lunch for 80 guests...")
	result, err := o.PlanEvent(ctx, eventID)
	if err != nil {
		fmt.Printf("❌ Planning failed: %v\n", err)
		return
	}
	printOrders(result.Orders)

	// The fishmonger confirmed the salmon already, keep that line as is
	salmon := findLine(result.Orders, "SI-SALMON")
	if salmon == nil {
		fmt.Println("❌ No salmon line was planned")
		return
	}
	if err := o.Procurement.SetLineFreeze(ctx, salmon.OrderID, salmon.ID, true); err != nil {
		fmt.Printf("❌ Freeze failed: %v\n", err)
		return
	}
	fmt.Printf("❄️  Froze %s at %s %s\n\n", salmon.ItemLabel, salmon.Qty, salmon.PurchaseUnit)

	fmt.Println("📈 Guest count rises to 110, replanning...")
	lunch.Pax = 110
	store.Events.AddService(lunch)

	result, err = o.PlanEvent(ctx, eventID)
	if err != nil {
		fmt.Printf("❌ Replanning failed: %v\n", err)
		return
	}
	printOrders(result.Orders)

	if after := findLine(result.Orders, "SI-SALMON"); after != nil && after.Qty.Equal(salmon.Qty) {
		fmt.Println("✅ Frozen salmon line kept its quantity while everything else followed the new guest count")
	}
}

func setupWedding(store *memory.Store) entities.EventService {
	start := time.Date(2025, 9, 6, 12, 0, 0, 0, time.UTC)
	store.Events.SaveEvent(entities.Event{
		ID: eventID, OrgID: orgID, HotelID: hotelID, Name: "Wedding lunch",
		StartsAt: start, EndsAt: start.Add(5 * time.Hour),
	})

	lunch := entities.EventService{
		ID: "LUNCH", EventID: eventID, Name: "Lunch", Pax: 80,
		Format: entities.FormatSeated, TemplateID: "TPL-LUNCH", StartsAt: start,
	}
	store.Events.AddService(lunch)

	six := decimal.NewFromInt(6)
	store.Menus.AddTemplateItem("TPL-LUNCH", entities.MenuTemplateItem{
		ID: "L1", Name: "Salmon fillet", Unit: entities.UnitKg,
		QtyPerSeatedGuest: decimal.RequireFromString("0.18"), RoundingRule: entities.RoundNone,
	})
	store.Menus.AddTemplateItem("TPL-LUNCH", entities.MenuTemplateItem{
		ID: "L2", Name: "Bread roll", Unit: entities.UnitEach,
		QtyPerSeatedGuest: decimal.NewFromInt(1), RoundingRule: entities.RoundCeilUnit,
	})
	store.Menus.AddTemplateItem("TPL-LUNCH", entities.MenuTemplateItem{
		ID: "L3", Name: "Sparkling water", Unit: entities.UnitEach,
		QtyPerSeatedGuest: decimal.RequireFromString("0.5"), RoundingRule: entities.RoundCeilPack, PackSize: &six,
	})

	dec := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}
	store.Catalog.AddSupplierItem(orgID, entities.SupplierItem{
		ID: "SI-SALMON", SupplierID: "SUP-FISH", Name: "Salmon fillet", PurchaseUnit: entities.UnitKg,
		RoundingRule: entities.RoundNone, PricePerUnit: dec("24.00"),
	})
	store.Catalog.AddSupplierItem(orgID, entities.SupplierItem{
		ID: "SI-BREAD", SupplierID: "SUP-BAKERY", Name: "Bread roll", PurchaseUnit: entities.UnitEach,
		RoundingRule: entities.RoundCeilPack, PackSize: dec("12"), PricePerUnit: dec("0.35"),
	})
	store.Catalog.AddSupplierItem(orgID, entities.SupplierItem{
		ID: "SI-WATER", SupplierID: "SUP-DRINKS", Name: "Sparkling water", PurchaseUnit: entities.UnitEach,
		RoundingRule: entities.RoundCeilPack, PackSize: &six, PricePerUnit: dec("2.10"),
	})

	store.Stock.LoadStockLevels([]entities.StockLevel{
		{HotelID: hotelID, SupplierItemID: "SI-WATER", OnHand: decimal.NewFromInt(12)},
	})

	return lunch
}

func printOrders(orders []dto.EventOrderView) {
	for _, v := range orders {
		fmt.Printf("  📋 %s  %s  total %s\n", v.Order.OrderNumber, v.Order.SupplierID, v.Total.StringFixed(2))
		for _, l := range v.Lines {
			frozen := ""
			if l.Freeze {
				frozen = "  ❄️"
			}
			fmt.Printf("     %-16s gross %-6s net %-6s order %s %s%s\n",
				l.ItemLabel, l.GrossQty, l.NetQty, l.Qty, l.PurchaseUnit, frozen)
		}
	}
	fmt.Println()
}

func findLine(orders []dto.EventOrderView, supplierItemID string) *entities.EventPurchaseOrderLine {
	for _, v := range orders {
		for i := range v.Lines {
			if v.Lines[i].SupplierItemID == supplierItemID {
				return &v.Lines[i]
			}
		}
	}
	return nil
}
