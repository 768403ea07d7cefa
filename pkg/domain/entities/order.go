package entities

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// EventOrderStatus is the status of a purchase order generated for an event.
// It is deliberately separate from PurchaseOrderStatus.
type EventOrderStatus string

const (
	EventOrderDraft     EventOrderStatus = "draft"
	EventOrderSent      EventOrderStatus = "sent"
	EventOrderCancelled EventOrderStatus = "cancelled"
)

var eventOrderTransitions = map[EventOrderStatus][]EventOrderStatus{
	EventOrderDraft: {EventOrderSent, EventOrderCancelled},
	EventOrderSent:  {EventOrderCancelled},
}

// CanTransitionTo reports whether the event order may move to next
func (s EventOrderStatus) CanTransitionTo(next EventOrderStatus) bool {
	for _, allowed := range eventOrderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Open reports whether quantities on the order still count as on-order
func (s EventOrderStatus) Open() bool {
	return s == EventOrderDraft || s == EventOrderSent
}

// EventPurchaseOrder is a supplier order derived from an event's demand
type EventPurchaseOrder struct {
	ID          string           `json:"id"`
	OrgID       string           `json:"org_id"`
	HotelID     string           `json:"hotel_id"`
	EventID     string           `json:"event_id"`
	SupplierID  string           `json:"supplier_id"`
	Status      EventOrderStatus `json:"status"`
	OrderNumber string           `json:"order_number"`
}

// EventPurchaseOrderLine is one netted line of an event order
type EventPurchaseOrderLine struct {
	ID             string           `json:"id"`
	OrderID        string           `json:"order_id"`
	SupplierItemID string           `json:"supplier_item_id"`
	ItemLabel      string           `json:"item_label"`
	Qty            decimal.Decimal  `json:"qty"`
	PurchaseUnit   Unit             `json:"purchase_unit"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty"`
	LineTotal      decimal.Decimal  `json:"line_total"`
	Freeze         bool             `json:"freeze"`
	GrossQty       decimal.Decimal  `json:"gross_qty"`
	OnHandQty      decimal.Decimal  `json:"on_hand_qty"`
	OnOrderQty     decimal.Decimal  `json:"on_order_qty"`
	NetQty         decimal.Decimal  `json:"net_qty"`
	RoundedQty     decimal.Decimal  `json:"rounded_qty"`
	UnitMismatch   bool             `json:"unit_mismatch"`
}

// EventOrderNumber builds the deterministic order number for the n-th
// supplier group of an event. The prefix keeps only letters and digits of
// the event id, so numbers are unique per event, not across events.
func EventOrderNumber(eventID string, n int) string {
	prefix := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		}
		return -1
	}, eventID)
	if prefix == "" {
		prefix = "EVENT"
	}
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("EV-%s-%d", prefix, n)
}

// OrderOrdinal returns the trailing ordinal of an event order number, or 0
// when the number has none
func OrderOrdinal(orderNumber string) int {
	i := strings.LastIndex(orderNumber, "-")
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(orderNumber[i+1:])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// SortEventOrders orders by ordinal so EV-X-2 comes before EV-X-10, then
// by number and id
func SortEventOrders(orders []*EventPurchaseOrder) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := OrderOrdinal(orders[i].OrderNumber), OrderOrdinal(orders[j].OrderNumber)
		if a != b {
			return a < b
		}
		if orders[i].OrderNumber != orders[j].OrderNumber {
			return orders[i].OrderNumber < orders[j].OrderNumber
		}
		return orders[i].ID < orders[j].ID
	})
}
