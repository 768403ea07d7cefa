package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

// NetLineKind discriminates NetLineResult
type NetLineKind string

const (
	NetLineOK    NetLineKind = "ok"
	NetLineError NetLineKind = "error"
)

// ReasonUnitMismatch is the only error reason a net line can carry
const ReasonUnitMismatch = "UNIT_MISMATCH"

// NetInput is everything needed to net one supplier item
type NetInput struct {
	GrossQty      decimal.Decimal
	OnHandQty     decimal.Decimal
	OnOrderQty    decimal.Decimal
	BufferPercent decimal.Decimal
	BufferQty     decimal.Decimal
	NeedUnit      entities.Unit
	PurchaseUnit  entities.Unit
	RoundingRule  entities.RoundingRule
	PackSize      *decimal.Decimal
}

// NetLineResult is either an error kind with a reason or the full netting
// breakdown. NetQty is never negative.
type NetLineResult struct {
	Kind          NetLineKind     `json:"kind"`
	Reason        string          `json:"reason,omitempty"`
	GrossQty      decimal.Decimal `json:"gross_qty"`
	OnHandQty     decimal.Decimal `json:"on_hand_qty"`
	OnOrderQty    decimal.Decimal `json:"on_order_qty"`
	BufferApplied decimal.Decimal `json:"buffer_applied"`
	NetQty        decimal.Decimal `json:"net_qty"`
	RoundedQty    decimal.Decimal `json:"rounded_qty"`
}

// Err returns the typed error for an error result, nil otherwise
func (r NetLineResult) Err() error {
	if r.Kind != NetLineError {
		return nil
	}
	return entities.ErrUnitMismatch
}

var hundred = decimal.NewFromInt(100)

// ComputeNetLine computes the quantity still to purchase for one supplier
// item. A unit mismatch is reported in the result, not as an error; the
// returned error covers invalid inputs only.
func ComputeNetLine(in NetInput) (NetLineResult, error) {
	if in.NeedUnit != in.PurchaseUnit {
		return NetLineResult{Kind: NetLineError, Reason: ReasonUnitMismatch}, nil
	}

	checks := []struct {
		name string
		v    decimal.Decimal
	}{
		{"gross", in.GrossQty},
		{"on-hand", in.OnHandQty},
		{"on-order", in.OnOrderQty},
		{"buffer percent", in.BufferPercent},
		{"buffer", in.BufferQty},
	}
	for _, c := range checks {
		if c.v.IsNegative() {
			return NetLineResult{}, fmt.Errorf("%w: %s quantity cannot be negative, got %s", entities.ErrInvalidQuantity, c.name, c.v)
		}
	}

	buffer := in.BufferQty
	if in.BufferPercent.IsPositive() {
		buffer = buffer.Add(in.GrossQty.Mul(in.BufferPercent).Div(hundred))
	}

	net := in.GrossQty.Sub(in.OnHandQty).Sub(in.OnOrderQty).Add(buffer)
	net = decimal.Max(decimal.Zero, net)

	rounded, err := EvaluateRounding(net, in.RoundingRule, in.PackSize)
	if err != nil {
		return NetLineResult{}, err
	}

	return NetLineResult{
		Kind:          NetLineOK,
		GrossQty:      in.GrossQty,
		OnHandQty:     in.OnHandQty,
		OnOrderQty:    in.OnOrderQty,
		BufferApplied: buffer,
		NetQty:        net,
		RoundedQty:    rounded,
	}, nil
}
