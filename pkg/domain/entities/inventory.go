package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// StockLevel is the on-hand quantity of a supplier item at a hotel
type StockLevel struct {
	HotelID        string
	SupplierItemID string
	OnHand         decimal.Decimal
}

// StockReservation is stock set aside for an event during its window
type StockReservation struct {
	HotelID        string
	EventID        string
	SupplierItemID string
	Quantity       decimal.Decimal
	Window         TimeWindow
}

// NewStockReservation creates a validated StockReservation
func NewStockReservation(hotelID, eventID, supplierItemID string, qty decimal.Decimal, window TimeWindow) (*StockReservation, error) {
	if hotelID == "" {
		return nil, fmt.Errorf("hotel id cannot be empty")
	}
	if eventID == "" {
		return nil, fmt.Errorf("event id cannot be empty")
	}
	if supplierItemID == "" {
		return nil, fmt.Errorf("supplier item id cannot be empty")
	}
	if qty.IsNegative() {
		return nil, fmt.Errorf("reserved quantity cannot be negative, got %s", qty)
	}
	if window.To.Before(window.From) {
		return nil, fmt.Errorf("reservation window ends before it starts")
	}
	return &StockReservation{
		HotelID:        hotelID,
		EventID:        eventID,
		SupplierItemID: supplierItemID,
		Quantity:       qty,
		Window:         window,
	}, nil
}
