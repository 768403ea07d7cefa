package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/domain/repositories"
)

// PurchaseOrderRepository provides in-memory standalone purchase orders
type PurchaseOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]entities.PurchaseOrder

	lockMu sync.Mutex
	locks  map[string]chan struct{}
}

// NewPurchaseOrderRepository creates a new in-memory purchase order repository
func NewPurchaseOrderRepository() *PurchaseOrderRepository {
	return &PurchaseOrderRepository{
		orders: make(map[string]entities.PurchaseOrder),
		locks:  make(map[string]chan struct{}),
	}
}

var _ repositories.PurchaseOrderRepository = (*PurchaseOrderRepository)(nil)

func clonePurchaseOrder(po entities.PurchaseOrder) *entities.PurchaseOrder {
	lines := make([]entities.PurchaseOrderLine, len(po.Lines))
	copy(lines, po.Lines)
	po.Lines = lines
	return &po
}

// Get retrieves a purchase order by id
func (r *PurchaseOrderRepository) Get(ctx context.Context, id string) (*entities.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	po, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("purchase order %s: %w", id, entities.ErrNotFound)
	}
	return clonePurchaseOrder(po), nil
}

// Save stores a purchase order with its lines
func (r *PurchaseOrderRepository) Save(ctx context.Context, po *entities.PurchaseOrder) error {
	if po.ID == "" {
		return fmt.Errorf("purchase order id cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[po.ID] = *clonePurchaseOrder(*po)
	return nil
}

// List returns an org's purchase orders sorted by order number
func (r *PurchaseOrderRepository) List(ctx context.Context, orgID string) ([]*entities.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.PurchaseOrder, 0)
	for _, po := range r.orders {
		if po.OrgID == orgID {
			result = append(result, clonePurchaseOrder(po))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].OrderNumber != result[j].OrderNumber {
			return result[i].OrderNumber < result[j].OrderNumber
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *PurchaseOrderRepository) acquire(ctx context.Context, id string) (func(), error) {
	r.lockMu.Lock()
	lock, ok := r.locks[id]
	if !ok {
		lock = make(chan struct{}, 1)
		r.locks[id] = lock
	}
	r.lockMu.Unlock()

	select {
	case lock <- struct{}{}:
		return func() { <-lock }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Update applies fn to the order while holding its lock. Updates of other
// orders are not blocked.
func (r *PurchaseOrderRepository) Update(ctx context.Context, id string, fn func(po *entities.PurchaseOrder) error) (*entities.PurchaseOrder, error) {
	release, err := r.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	po, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(po); err != nil {
		return nil, err
	}
	if err := r.Save(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}
