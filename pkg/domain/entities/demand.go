package entities

import "github.com/shopspring/decimal"

// Need is a derived quantity of an item required by a service. It is
// recomputed on every request and never persisted.
type Need struct {
	Label      string          `json:"label"`
	Section    string          `json:"section,omitempty"`
	Unit       Unit            `json:"unit"`
	Qty        decimal.Decimal `json:"qty"`
	QtyRounded decimal.Decimal `json:"qty_rounded"`
}

// ServiceNeeds groups the needs derived for one service
type ServiceNeeds struct {
	ServiceID string `json:"service_id"`
	Name      string `json:"name"`
	Needs     []Need `json:"needs"`
}
