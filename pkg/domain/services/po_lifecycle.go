package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

var purchaseOrderTransitions = map[entities.PurchaseOrderStatus][]entities.PurchaseOrderStatus{
	entities.PODraft:    {entities.POApproved, entities.POCancelled},
	entities.POApproved: {entities.POOrdered, entities.POCancelled},
	entities.POOrdered:  {entities.POReceived, entities.POCancelled},
}

// CanTransition reports whether a standalone order may move from one status
// to another. Staying in the same status is always allowed.
func CanTransition(from, to entities.PurchaseOrderStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range purchaseOrderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionPurchaseOrder moves po to the target status. It returns false
// when the order was already in that status.
func TransitionPurchaseOrder(po *entities.PurchaseOrder, to entities.PurchaseOrderStatus) (bool, error) {
	if !to.Valid() {
		return false, fmt.Errorf("%w: unknown status %q", entities.ErrInvalidStateTransition, to)
	}
	if po.Status == to {
		return false, nil
	}
	if !CanTransition(po.Status, to) {
		return false, fmt.Errorf("%w: %s -> %s", entities.ErrInvalidStateTransition, po.Status, to)
	}
	po.Status = to
	return true, nil
}

// LineTotal is requested quantity times unit price, zero without a price
func LineTotal(line entities.PurchaseOrderLine) decimal.Decimal {
	if line.UnitPrice == nil {
		return decimal.Zero
	}
	return line.RequestedQty.Mul(*line.UnitPrice)
}

// OrderTotal sums the line totals of an order
func OrderTotal(po *entities.PurchaseOrder) decimal.Decimal {
	total := decimal.Zero
	for _, line := range po.Lines {
		total = total.Add(LineTotal(line))
	}
	return total
}

// FullyReceived reports whether every line has been received in full
func FullyReceived(po *entities.PurchaseOrder) bool {
	if len(po.Lines) == 0 {
		return false
	}
	for _, line := range po.Lines {
		if line.Outstanding().IsPositive() {
			return false
		}
	}
	return true
}

// RecordReceipt adds qty to the received quantity of a line
func RecordReceipt(po *entities.PurchaseOrder, lineID string, qty decimal.Decimal) (*entities.PurchaseOrderLine, error) {
	if qty.IsNegative() {
		return nil, fmt.Errorf("%w: received quantity cannot be negative, got %s", entities.ErrNegativeReceipt, qty)
	}
	if po.Status != entities.POOrdered {
		return nil, fmt.Errorf("%w: cannot receive against %s order", entities.ErrInvalidStateTransition, po.Status)
	}
	for i := range po.Lines {
		if po.Lines[i].ID == lineID {
			po.Lines[i].ReceivedQty = po.Lines[i].ReceivedQty.Add(qty)
			return &po.Lines[i], nil
		}
	}
	return nil, fmt.Errorf("line %s on purchase order %s: %w", lineID, po.ID, entities.ErrNotFound)
}
