package memory

import "github.com/vsinha/eventprocure/pkg/domain/entities"

// Store bundles every in-memory repository so they can share order data
type Store struct {
	Events         *EventRepository
	Menus          *MenuRepository
	Catalog        *CatalogRepository
	Stock          *StockRepository
	PurchaseOrders *PurchaseOrderRepository
	EventOrders    *EventOrderRepository
	Ledger         *OrderLedger
}

// NewStore creates an empty in-memory store
func NewStore(defaults entities.PurchasingSettings) *Store {
	pos := NewPurchaseOrderRepository()
	eos := NewEventOrderRepository()
	return &Store{
		Events:         NewEventRepository(),
		Menus:          NewMenuRepository(),
		Catalog:        NewCatalogRepository(defaults),
		Stock:          NewStockRepository(),
		PurchaseOrders: pos,
		EventOrders:    eos,
		Ledger:         NewOrderLedger(pos, eos),
	}
}
