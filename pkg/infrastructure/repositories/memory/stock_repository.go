package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/domain/repositories"
)

type stockKey struct {
	hotelID        string
	supplierItemID string
}

// StockRepository provides in-memory stock levels and reservations
type StockRepository struct {
	mu           sync.RWMutex
	onHand       map[stockKey]decimal.Decimal
	reservations []entities.StockReservation
}

// NewStockRepository creates a new in-memory stock repository
func NewStockRepository() *StockRepository {
	return &StockRepository{
		onHand:       make(map[stockKey]decimal.Decimal),
		reservations: []entities.StockReservation{},
	}
}

// Verify interface compliance
var _ repositories.StockRepository = (*StockRepository)(nil)

// LoadStockLevels sets on-hand quantities
func (r *StockRepository) LoadStockLevels(levels []entities.StockLevel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range levels {
		r.onHand[stockKey{l.HotelID, l.SupplierItemID}] = l.OnHand
	}
}

// AddReservation records stock set aside for an event
func (r *StockRepository) AddReservation(res entities.StockReservation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reservations = append(r.reservations, res)
}

// OnHand returns the on-hand quantity, zero for unknown items
func (r *StockRepository) OnHand(ctx context.Context, hotelID, supplierItemID string) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.onHand[stockKey{hotelID, supplierItemID}], nil
}

// Reserved sums overlapping reservations held by other events
func (r *StockRepository) Reserved(
	ctx context.Context,
	hotelID, supplierItemID string,
	window entities.TimeWindow,
	excludeEventID string,
) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := decimal.Zero
	for _, res := range r.reservations {
		if res.HotelID != hotelID || res.SupplierItemID != supplierItemID || res.EventID == excludeEventID {
			continue
		}
		if res.Window.Overlaps(window) {
			total = total.Add(res.Quantity)
		}
	}
	return total, nil
}

// Adjust changes the on-hand quantity by delta
func (r *StockRepository) Adjust(ctx context.Context, hotelID, supplierItemID string, delta decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := stockKey{hotelID, supplierItemID}
	r.onHand[key] = r.onHand[key].Add(delta)
	return nil
}
