package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

func baseNetInput() NetInput {
	return NetInput{
		GrossQty:     dec("10"),
		OnHandQty:    dec("3"),
		OnOrderQty:   dec("2"),
		NeedUnit:     entities.UnitEach,
		PurchaseUnit: entities.UnitEach,
		RoundingRule: entities.RoundNone,
	}
}

func TestComputeNetLine_Scenario(t *testing.T) {
	in := baseNetInput()
	in.BufferPercent = dec("10")
	in.BufferQty = dec("1")

	res, err := ComputeNetLine(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != NetLineOK {
		t.Fatalf("expected ok result, got %+v", res)
	}
	if !res.BufferApplied.Equal(dec("2")) {
		t.Errorf("expected buffer 2, got %s", res.BufferApplied)
	}
	if !res.NetQty.Equal(dec("7")) {
		t.Errorf("expected net 7, got %s", res.NetQty)
	}
	if !res.RoundedQty.Equal(dec("7")) {
		t.Errorf("expected rounded 7, got %s", res.RoundedQty)
	}
}

func TestComputeNetLine_PackRounding(t *testing.T) {
	in := NetInput{
		GrossQty:     dec("5"),
		NeedUnit:     entities.UnitEach,
		PurchaseUnit: entities.UnitEach,
		RoundingRule: entities.RoundCeilPack,
		PackSize:     decPtr("4"),
	}
	res, err := ComputeNetLine(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.RoundedQty.Equal(dec("8")) {
		t.Errorf("expected rounded 8, got %s", res.RoundedQty)
	}
}

func TestComputeNetLine_UnitMismatch(t *testing.T) {
	in := baseNetInput()
	in.NeedUnit = entities.UnitKg

	res, err := ComputeNetLine(in)
	if err != nil {
		t.Fatalf("mismatch must be reported in the result, got error %v", err)
	}
	if res.Kind != NetLineError || res.Reason != ReasonUnitMismatch {
		t.Errorf("expected UNIT_MISMATCH error result, got %+v", res)
	}
	if !errors.Is(res.Err(), entities.ErrUnitMismatch) {
		t.Errorf("expected Err() to be ErrUnitMismatch, got %v", res.Err())
	}
}

func TestComputeNetLine_ClampsAtZero(t *testing.T) {
	in := baseNetInput()
	in.OnHandQty = dec("50")

	res, err := ComputeNetLine(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.NetQty.IsZero() || !res.RoundedQty.IsZero() {
		t.Errorf("expected zero net and rounded, got %s / %s", res.NetQty, res.RoundedQty)
	}
}

func TestComputeNetLine_RejectsNegativeInputs(t *testing.T) {
	mutations := map[string]func(*NetInput){
		"gross":          func(in *NetInput) { in.GrossQty = dec("-1") },
		"on_hand":        func(in *NetInput) { in.OnHandQty = dec("-1") },
		"on_order":       func(in *NetInput) { in.OnOrderQty = dec("-1") },
		"buffer_percent": func(in *NetInput) { in.BufferPercent = dec("-5") },
		"buffer_qty":     func(in *NetInput) { in.BufferQty = dec("-1") },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			in := baseNetInput()
			mutate(&in)
			if _, err := ComputeNetLine(in); !errors.Is(err, entities.ErrInvalidQuantity) {
				t.Errorf("expected ErrInvalidQuantity, got %v", err)
			}
		})
	}
}

func TestComputeNetLine_Monotonic(t *testing.T) {
	net := func(in NetInput) decimal.Decimal {
		res, err := ComputeNetLine(in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return res.NetQty
	}

	steps := []string{"0", "1", "2.5", "5", "10", "40"}
	prevGross, prevPct, prevBuf := decimal.Zero, decimal.Zero, decimal.Zero
	prevOnHand, prevOnOrder := dec("1000"), dec("1000")

	for i, s := range steps {
		in := baseNetInput()
		in.GrossQty = dec(s)
		g := net(in)

		in = baseNetInput()
		in.BufferPercent = dec(s)
		p := net(in)

		in = baseNetInput()
		in.BufferQty = dec(s)
		b := net(in)

		in = baseNetInput()
		in.OnHandQty = dec(s)
		h := net(in)

		in = baseNetInput()
		in.OnOrderQty = dec(s)
		o := net(in)

		if i > 0 {
			if g.LessThan(prevGross) || p.LessThan(prevPct) || b.LessThan(prevBuf) {
				t.Errorf("net decreased when increasing demand inputs at step %s", s)
			}
			if h.GreaterThan(prevOnHand) || o.GreaterThan(prevOnOrder) {
				t.Errorf("net increased when increasing supply inputs at step %s", s)
			}
		}
		for _, v := range []decimal.Decimal{g, p, b, h, o} {
			if v.IsNegative() {
				t.Errorf("net went negative: %s", v)
			}
		}
		prevGross, prevPct, prevBuf, prevOnHand, prevOnOrder = g, p, b, h, o
	}
}
