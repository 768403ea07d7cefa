package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestEvaluateRounding(t *testing.T) {
	tests := []struct {
		name     string
		qty      string
		rule     entities.RoundingRule
		pack     *decimal.Decimal
		expected string
	}{
		{"none_keeps_fraction", "2.35", entities.RoundNone, nil, "2.35"},
		{"none_ignores_pack", "5", entities.RoundNone, decPtr("4"), "5"},
		{"ceil_unit_fraction", "2.1", entities.RoundCeilUnit, nil, "3"},
		{"ceil_unit_integer", "7", entities.RoundCeilUnit, nil, "7"},
		{"ceil_unit_zero", "0", entities.RoundCeilUnit, nil, "0"},
		{"ceil_pack_up", "5", entities.RoundCeilPack, decPtr("4"), "8"},
		{"ceil_pack_exact", "12", entities.RoundCeilPack, decPtr("4"), "12"},
		{"ceil_pack_fractional_pack", "1.25", entities.RoundCeilPack, decPtr("0.5"), "1.5"},
		{"ceil_pack_fractional_exact", "0.9", entities.RoundCeilPack, decPtr("0.3"), "0.9"},
		{"ceil_pack_zero", "0", entities.RoundCeilPack, decPtr("6"), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluateRounding(dec(tt.qty), tt.rule, tt.pack)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(dec(tt.expected)) {
				t.Errorf("EvaluateRounding(%s, %s) = %s, want %s", tt.qty, tt.rule, got, tt.expected)
			}
		})
	}
}

func TestEvaluateRounding_Errors(t *testing.T) {
	tests := []struct {
		name    string
		qty     string
		rule    entities.RoundingRule
		pack    *decimal.Decimal
		wantErr error
	}{
		{"negative_none", "-1", entities.RoundNone, nil, entities.ErrInvalidQuantity},
		{"negative_pack", "-0.5", entities.RoundCeilPack, decPtr("2"), entities.ErrInvalidQuantity},
		{"pack_missing", "3", entities.RoundCeilPack, nil, entities.ErrInvalidPackSize},
		{"pack_zero", "3", entities.RoundCeilPack, decPtr("0"), entities.ErrInvalidPackSize},
		{"pack_negative", "3", entities.RoundCeilPack, decPtr("-2"), entities.ErrInvalidPackSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EvaluateRounding(dec(tt.qty), tt.rule, tt.pack)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEvaluateRounding_Properties(t *testing.T) {
	quantities := []string{"0", "0.01", "0.5", "1", "1.999", "3", "10.25", "99.9", "250"}
	packs := []string{"0.25", "1", "4", "6", "12.5"}

	for _, q := range quantities {
		qty := dec(q)

		got, err := EvaluateRounding(qty, entities.RoundNone, nil)
		if err != nil || !got.Equal(qty) {
			t.Errorf("none(%s) = %s, %v", q, got, err)
		}

		got, err = EvaluateRounding(qty, entities.RoundCeilUnit, nil)
		if err != nil {
			t.Fatalf("ceil_unit(%s): %v", q, err)
		}
		if got.LessThan(qty) || !got.Equal(got.Truncate(0)) {
			t.Errorf("ceil_unit(%s) = %s is not an integer >= qty", q, got)
		}

		for _, p := range packs {
			pack := dec(p)
			got, err := EvaluateRounding(qty, entities.RoundCeilPack, &pack)
			if err != nil {
				t.Fatalf("ceil_pack(%s, %s): %v", q, p, err)
			}
			if got.LessThan(qty) {
				t.Errorf("ceil_pack(%s, %s) = %s is below qty", q, p, got)
			}
			if !got.Mod(pack).IsZero() {
				t.Errorf("ceil_pack(%s, %s) = %s is not a pack multiple", q, p, got)
			}
			if got.Sub(pack).GreaterThanOrEqual(qty) && qty.IsPositive() {
				t.Errorf("ceil_pack(%s, %s) = %s is not the smallest multiple", q, p, got)
			}
		}
	}
}
