package events

import (
	"github.com/shopspring/decimal"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

const (
	EventOrderDraftedEvent     = "event_order.drafted"
	EventOrderRemovedEvent     = "event_order.removed"
	EventOrderStatusEvent      = "event_order.status_changed"
	EventOrderLineFrozenEvent  = "event_order.line_freeze_changed"
	SynthesisAbortedEvent      = "synthesis.aborted"
	AliasCreatedEvent          = "alias.created"
	PurchaseOrderTransitioned  = "purchase_order.transitioned"
	PurchaseOrderReceivedEvent = "purchase_order.received"
)

// EventOrderDrafted is recorded when synthesis creates or refreshes a draft
type EventOrderDrafted struct {
	Order         entities.EventPurchaseOrder `json:"order"`
	Created       bool                        `json:"created"`
	InsertedLines int                         `json:"inserted_lines"`
	FrozenLines   int                         `json:"frozen_lines"`
}

// EventOrderRemoved is recorded when a draft ends up with no lines
type EventOrderRemoved struct {
	OrderID    string `json:"order_id"`
	EventID    string `json:"event_id"`
	SupplierID string `json:"supplier_id"`
}

type EventOrderStatusChanged struct {
	OrderID string                    `json:"order_id"`
	From    entities.EventOrderStatus `json:"from"`
	To      entities.EventOrderStatus `json:"to"`
}

type EventOrderLineFreezeChanged struct {
	OrderID string `json:"order_id"`
	LineID  string `json:"line_id"`
	Freeze  bool   `json:"freeze"`
}

// SynthesisAborted is recorded when unknown labels or unit mismatches stop a run
type SynthesisAborted struct {
	EventID       string   `json:"event_id"`
	UnknownLabels []string `json:"unknown_labels,omitempty"`
	MismatchItems []string `json:"mismatch_items,omitempty"`
}

type AliasCreated struct {
	Alias entities.Alias `json:"alias"`
}

type PurchaseOrderStatusChanged struct {
	PurchaseOrderID string                       `json:"purchase_order_id"`
	From            entities.PurchaseOrderStatus `json:"from"`
	To              entities.PurchaseOrderStatus `json:"to"`
}

type PurchaseOrderReceived struct {
	PurchaseOrderID string          `json:"purchase_order_id"`
	LineID          string          `json:"line_id"`
	SupplierItemID  string          `json:"supplier_item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// EventOrderStream is the stream id used for all records of one event
func EventOrderStream(eventID string) string {
	return "event:" + eventID
}

// PurchaseOrderStream is the stream id for a standalone purchase order
func PurchaseOrderStream(poID string) string {
	return "purchase_order:" + poID
}
