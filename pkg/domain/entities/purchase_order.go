package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus is the status of a standalone (non-event) purchase order
type PurchaseOrderStatus string

const (
	PODraft     PurchaseOrderStatus = "draft"
	POApproved  PurchaseOrderStatus = "approved"
	POOrdered   PurchaseOrderStatus = "ordered"
	POReceived  PurchaseOrderStatus = "received"
	POCancelled PurchaseOrderStatus = "cancelled"
)

// Valid reports whether s is a known status
func (s PurchaseOrderStatus) Valid() bool {
	switch s {
	case PODraft, POApproved, POOrdered, POReceived, POCancelled:
		return true
	default:
		return false
	}
}

// Open reports whether undelivered quantities on the order count as on-order
func (s PurchaseOrderStatus) Open() bool {
	return s == POApproved || s == POOrdered
}

// PurchaseOrder is a manually created supplier order
type PurchaseOrder struct {
	ID          string              `json:"id"`
	OrgID       string              `json:"org_id"`
	HotelID     string              `json:"hotel_id"`
	SupplierID  string              `json:"supplier_id"`
	OrderNumber string              `json:"order_number"`
	Status      PurchaseOrderStatus `json:"status"`
	Lines       []PurchaseOrderLine `json:"lines"`
}

// PurchaseOrderLine is one line of a standalone purchase order
type PurchaseOrderLine struct {
	ID             string           `json:"id"`
	SupplierItemID string           `json:"supplier_item_id"`
	ItemLabel      string           `json:"item_label"`
	RequestedQty   decimal.Decimal  `json:"requested_qty"`
	ReceivedQty    decimal.Decimal  `json:"received_qty"`
	PurchaseUnit   Unit             `json:"purchase_unit"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty"`
}

// Outstanding returns the quantity not yet received, never below zero
func (l PurchaseOrderLine) Outstanding() decimal.Decimal {
	return decimal.Max(decimal.Zero, l.RequestedQty.Sub(l.ReceivedQty))
}

// NewPurchaseOrderLine creates a validated PurchaseOrderLine
func NewPurchaseOrderLine(id, supplierItemID, label string, qty decimal.Decimal, unit Unit, unitPrice *decimal.Decimal) (*PurchaseOrderLine, error) {
	if supplierItemID == "" {
		return nil, fmt.Errorf("supplier item id cannot be empty")
	}
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: requested quantity must be positive, got %s", ErrInvalidQuantity, qty)
	}
	if !unit.Valid() {
		return nil, fmt.Errorf("unknown unit %q", unit)
	}
	if unitPrice != nil && unitPrice.IsNegative() {
		return nil, fmt.Errorf("unit price cannot be negative, got %s", unitPrice)
	}
	return &PurchaseOrderLine{
		ID:             id,
		SupplierItemID: supplierItemID,
		ItemLabel:      label,
		RequestedQty:   qty,
		ReceivedQty:    decimal.Zero,
		PurchaseUnit:   unit,
		UnitPrice:      unitPrice,
	}, nil
}
