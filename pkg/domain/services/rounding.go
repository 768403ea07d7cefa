package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

// EvaluateRounding turns a raw quantity into a purchasable quantity.
// ceil_pack rounds up to the next multiple of packSize.
func EvaluateRounding(qty decimal.Decimal, rule entities.RoundingRule, packSize *decimal.Decimal) (decimal.Decimal, error) {
	if qty.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: quantity cannot be negative, got %s", entities.ErrInvalidQuantity, qty)
	}

	switch rule {
	case entities.RoundNone:
		return qty, nil
	case entities.RoundCeilUnit:
		return qty.Ceil(), nil
	case entities.RoundCeilPack:
		if packSize == nil || !packSize.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: ceil_pack needs a positive pack size", entities.ErrInvalidPackSize)
		}
		rem := qty.Mod(*packSize)
		if rem.IsZero() {
			return qty, nil
		}
		return qty.Sub(rem).Add(*packSize), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown rounding rule %q", rule)
	}
}
