package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/domain/repositories"
)

// EventOrderRepository provides in-memory event order storage. Draft
// regenerations are serialized per (event, supplier) through a keyed lock;
// a transaction works on a private copy that is published only when its
// function returns without error.
type EventOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]entities.EventPurchaseOrder
	lines  map[string][]entities.EventPurchaseOrderLine

	locksMu sync.Mutex
	locks   map[repositories.DraftKey]chan struct{}
}

// NewEventOrderRepository creates a new in-memory event order repository
func NewEventOrderRepository() *EventOrderRepository {
	return &EventOrderRepository{
		orders: make(map[string]entities.EventPurchaseOrder),
		lines:  make(map[string][]entities.EventPurchaseOrderLine),
		locks:  make(map[repositories.DraftKey]chan struct{}),
	}
}

var _ repositories.EventOrderRepository = (*EventOrderRepository)(nil)

func (r *EventOrderRepository) keyLock(key repositories.DraftKey) chan struct{} {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()

	lock, ok := r.locks[key]
	if !ok {
		lock = make(chan struct{}, 1)
		r.locks[key] = lock
	}
	return lock
}

func (r *EventOrderRepository) acquire(ctx context.Context, key repositories.DraftKey) (func(), error) {
	lock := r.keyLock(key)
	select {
	case lock <- struct{}{}:
		return func() { <-lock }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// WithDraftLock runs fn with exclusive access to the draft of key
func (r *EventOrderRepository) WithDraftLock(ctx context.Context, key repositories.DraftKey, fn func(tx repositories.DraftTx) error) error {
	release, err := r.acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()

	tx := &draftTx{repo: r, key: key}
	if err := fn(tx); err != nil {
		return err
	}
	r.commit(tx)
	return nil
}

func (r *EventOrderRepository) commit(tx *draftTx) {
	if tx.order == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := tx.order.ID
	if tx.deleted {
		delete(r.orders, id)
		delete(r.lines, id)
		return
	}
	if tx.created {
		r.orders[id] = *tx.order
	}
	if tx.lines != nil {
		r.lines[id] = tx.lines
	}
}

// draftTx buffers every change to the draft of one key
type draftTx struct {
	repo    *EventOrderRepository
	key     repositories.DraftKey
	order   *entities.EventPurchaseOrder
	lines   []entities.EventPurchaseOrderLine
	loaded  bool
	created bool
	deleted bool
}

func (tx *draftTx) UpsertDraft(orderNumber string) (*entities.EventPurchaseOrder, bool, error) {
	if tx.order != nil && !tx.deleted {
		order := *tx.order
		return &order, false, nil
	}

	tx.repo.mu.RLock()
	for _, o := range tx.repo.orders {
		if o.EventID == tx.key.EventID && o.SupplierID == tx.key.SupplierID && o.Status == entities.EventOrderDraft {
			existing := o
			tx.order = &existing
			break
		}
	}
	tx.repo.mu.RUnlock()

	if tx.order != nil {
		order := *tx.order
		return &order, false, nil
	}

	tx.order = &entities.EventPurchaseOrder{
		ID:          uuid.NewString(),
		OrgID:       tx.key.OrgID,
		HotelID:     tx.key.HotelID,
		EventID:     tx.key.EventID,
		SupplierID:  tx.key.SupplierID,
		Status:      entities.EventOrderDraft,
		OrderNumber: orderNumber,
	}
	tx.lines = []entities.EventPurchaseOrderLine{}
	tx.loaded = true
	tx.created = true
	tx.deleted = false
	order := *tx.order
	return &order, true, nil
}

func (tx *draftTx) checkOrder(orderID string) error {
	if tx.order == nil || tx.order.ID != orderID || tx.deleted {
		return fmt.Errorf("order %s is not the locked draft: %w", orderID, entities.ErrNotFound)
	}
	return nil
}

func (tx *draftTx) load() {
	if tx.loaded {
		return
	}
	tx.repo.mu.RLock()
	existing := tx.repo.lines[tx.order.ID]
	tx.lines = make([]entities.EventPurchaseOrderLine, len(existing))
	copy(tx.lines, existing)
	tx.repo.mu.RUnlock()
	tx.loaded = true
}

func (tx *draftTx) ListLines(orderID string) ([]entities.EventPurchaseOrderLine, error) {
	if err := tx.checkOrder(orderID); err != nil {
		return nil, err
	}
	tx.load()
	lines := make([]entities.EventPurchaseOrderLine, len(tx.lines))
	copy(lines, tx.lines)
	return lines, nil
}

func (tx *draftTx) DeleteLines(lineIDs []string) error {
	if tx.order == nil {
		return fmt.Errorf("no draft upserted")
	}
	tx.load()

	drop := make(map[string]bool, len(lineIDs))
	for _, id := range lineIDs {
		drop[id] = true
	}
	kept := tx.lines[:0]
	for _, line := range tx.lines {
		if !drop[line.ID] {
			kept = append(kept, line)
		}
	}
	tx.lines = kept
	return nil
}

func (tx *draftTx) InsertLines(lines []entities.EventPurchaseOrderLine) error {
	if tx.order == nil {
		return fmt.Errorf("no draft upserted")
	}
	tx.load()

	for _, line := range lines {
		if line.OrderID != tx.order.ID {
			return fmt.Errorf("line for order %s inserted into draft %s", line.OrderID, tx.order.ID)
		}
		if line.ID == "" {
			line.ID = uuid.NewString()
		}
		tx.lines = append(tx.lines, line)
	}
	return nil
}

func (tx *draftTx) DeleteOrder(orderID string) error {
	if err := tx.checkOrder(orderID); err != nil {
		return err
	}
	tx.deleted = true
	tx.lines = nil
	return nil
}

// GetOrder retrieves an event order by id
func (r *EventOrderRepository) GetOrder(ctx context.Context, orderID string) (*entities.EventPurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("event order %s: %w", orderID, entities.ErrNotFound)
	}
	return &o, nil
}

// ListOrders returns every order of an event sorted by order ordinal
func (r *EventOrderRepository) ListOrders(ctx context.Context, eventID string) ([]*entities.EventPurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.EventPurchaseOrder, 0)
	for _, o := range r.orders {
		if o.EventID == eventID {
			order := o
			result = append(result, &order)
		}
	}
	entities.SortEventOrders(result)
	return result, nil
}

// GetLines returns the lines of an order in insertion order
func (r *EventOrderRepository) GetLines(ctx context.Context, orderID string) ([]entities.EventPurchaseOrderLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.orders[orderID]; !ok {
		return nil, fmt.Errorf("event order %s: %w", orderID, entities.ErrNotFound)
	}
	lines := make([]entities.EventPurchaseOrderLine, len(r.lines[orderID]))
	copy(lines, r.lines[orderID])
	return lines, nil
}

func orderKey(o entities.EventPurchaseOrder) repositories.DraftKey {
	return repositories.DraftKey{OrgID: o.OrgID, HotelID: o.HotelID, EventID: o.EventID, SupplierID: o.SupplierID}
}

// UpdateStatus moves an order from one status to another. It waits for any
// regeneration running on the same event and supplier.
func (r *EventOrderRepository) UpdateStatus(ctx context.Context, orderID string, from, to entities.EventOrderStatus) error {
	o, err := r.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	release, err := r.acquire(ctx, orderKey(*o))
	if err != nil {
		return err
	}
	defer release()

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("event order %s: %w", orderID, entities.ErrNotFound)
	}
	if current.Status != from {
		return fmt.Errorf("%w: event order %s is %s, not %s",
			entities.ErrInvalidStateTransition, orderID, current.Status, from)
	}
	current.Status = to
	r.orders[orderID] = current
	return nil
}

// SetLineFreeze marks a line as frozen or releases it
func (r *EventOrderRepository) SetLineFreeze(ctx context.Context, orderID, lineID string, freeze bool) error {
	o, err := r.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	release, err := r.acquire(ctx, orderKey(*o))
	if err != nil {
		return err
	}
	defer release()

	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.orders[orderID]; !ok {
		return fmt.Errorf("event order %s: %w", orderID, entities.ErrNotFound)
	} else if current.Status != entities.EventOrderDraft {
		return fmt.Errorf("%w: order %s is %s", entities.ErrOrderNotDraft, orderID, current.Status)
	}
	for i, line := range r.lines[orderID] {
		if line.ID == lineID {
			r.lines[orderID][i].Freeze = freeze
			return nil
		}
	}
	return fmt.Errorf("line %s on event order %s: %w", lineID, orderID, entities.ErrNotFound)
}

// openEventQuantity sums line quantities of open event orders for an item,
// skipping orders of excludeEventID
func (r *EventOrderRepository) openEventQuantity(orgID, supplierItemID, excludeEventID string) decimal.Decimal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := decimal.Zero
	for id, o := range r.orders {
		if o.OrgID != orgID || o.EventID == excludeEventID || !o.Status.Open() {
			continue
		}
		for _, line := range r.lines[id] {
			if line.SupplierItemID == supplierItemID {
				total = total.Add(line.Qty)
			}
		}
	}
	return total
}
