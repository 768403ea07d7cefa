package memory

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vsinha/eventprocure/pkg/domain/repositories"
)

// OrderLedger answers on-order questions from the in-memory order stores
type OrderLedger struct {
	purchaseOrders *PurchaseOrderRepository
	eventOrders    *EventOrderRepository
}

// NewOrderLedger creates a ledger over both order repositories
func NewOrderLedger(purchaseOrders *PurchaseOrderRepository, eventOrders *EventOrderRepository) *OrderLedger {
	return &OrderLedger{purchaseOrders: purchaseOrders, eventOrders: eventOrders}
}

var _ repositories.OrderLedger = (*OrderLedger)(nil)

// OnOrder sums undelivered quantities of open orders for an item
func (l *OrderLedger) OnOrder(ctx context.Context, orgID, supplierItemID, excludeEventID string) (decimal.Decimal, error) {
	total := l.eventOrders.openEventQuantity(orgID, supplierItemID, excludeEventID)

	l.purchaseOrders.mu.RLock()
	defer l.purchaseOrders.mu.RUnlock()

	for _, po := range l.purchaseOrders.orders {
		if po.OrgID != orgID || !po.Status.Open() {
			continue
		}
		for _, line := range po.Lines {
			if line.SupplierItemID == supplierItemID {
				total = total.Add(line.Outstanding())
			}
		}
	}
	return total, nil
}
