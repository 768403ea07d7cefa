package dto

import (
	"github.com/shopspring/decimal"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

// SynthesisRequest carries the inputs of one draft order synthesis
type SynthesisRequest struct {
	OrgID         string
	HotelID       string
	EventID       string
	Needs         []entities.Need
	Aliases       []entities.Alias
	SupplierItems []entities.SupplierItem
}

// SynthesisStatus tells which of the three outcomes a run produced
type SynthesisStatus string

const (
	SynthesisCreated      SynthesisStatus = "created"
	SynthesisUnknownLabel SynthesisStatus = "unknown_labels"
	SynthesisUnitMismatch SynthesisStatus = "unit_mismatch"
)

// UnitMismatch describes a supplier item whose purchase unit differs from
// the unit of the needs resolved to it
type UnitMismatch struct {
	SupplierItemID   string        `json:"supplier_item_id"`
	SupplierItemName string        `json:"supplier_item_name"`
	Labels           []string      `json:"labels"`
	NeedUnit         entities.Unit `json:"need_unit"`
	PurchaseUnit     entities.Unit `json:"purchase_unit"`
}

// SynthesisResult is the outcome of a synthesis run. Unknown and Mismatches
// are only set when the run was aborted without writing anything.
type SynthesisResult struct {
	Status          SynthesisStatus `json:"status"`
	OrderIDs        []string        `json:"order_ids,omitempty"`
	RemovedOrderIDs []string        `json:"removed_order_ids,omitempty"`
	Unknown         []entities.Need `json:"unknown,omitempty"`
	Mismatches      []UnitMismatch  `json:"mismatches,omitempty"`
}

// EventOrderView is an event order with its lines and total
type EventOrderView struct {
	Order entities.EventPurchaseOrder       `json:"order"`
	Lines []entities.EventPurchaseOrderLine `json:"lines"`
	Total decimal.Decimal                   `json:"total"`
}

// PurchaseOrderView is a standalone order with computed totals
type PurchaseOrderView struct {
	Order      entities.PurchaseOrder `json:"order"`
	LineTotals []decimal.Decimal      `json:"line_totals"`
	Total      decimal.Decimal        `json:"total"`
}

// PlanResult is the demand of an event together with the synthesis run
// made from it
type PlanResult struct {
	Demand    *EventDemand     `json:"demand"`
	Synthesis *SynthesisResult `json:"synthesis"`
}
