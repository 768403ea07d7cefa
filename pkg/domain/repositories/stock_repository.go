package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

// StockRepository provides on-hand and reserved quantities per hotel
type StockRepository interface {
	OnHand(ctx context.Context, hotelID, supplierItemID string) (decimal.Decimal, error)
	// Reserved sums reservations by events other than excludeEventID whose
	// window overlaps the given one
	Reserved(ctx context.Context, hotelID, supplierItemID string, window entities.TimeWindow, excludeEventID string) (decimal.Decimal, error)
	Adjust(ctx context.Context, hotelID, supplierItemID string, delta decimal.Decimal) error
}

// OrderLedger reports undelivered quantities across every open order
type OrderLedger interface {
	// OnOrder sums undelivered quantity for the item over approved or ordered
	// purchase orders and draft or sent event orders, skipping orders that
	// belong to excludeEventID
	OnOrder(ctx context.Context, orgID, supplierItemID, excludeEventID string) (decimal.Decimal, error)
}
