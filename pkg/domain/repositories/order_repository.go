package repositories

import (
	"context"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

// DraftKey identifies the single draft order allowed per event and supplier
type DraftKey struct {
	OrgID      string
	HotelID    string
	EventID    string
	SupplierID string
}

// DraftTx is the unit of work handed out by WithDraftLock. All calls made
// through it commit together or not at all.
type DraftTx interface {
	// UpsertDraft returns the existing draft for the key, creating it with
	// orderNumber when none exists
	UpsertDraft(orderNumber string) (*entities.EventPurchaseOrder, bool, error)
	ListLines(orderID string) ([]entities.EventPurchaseOrderLine, error)
	DeleteLines(lineIDs []string) error
	InsertLines(lines []entities.EventPurchaseOrderLine) error
	DeleteOrder(orderID string) error
}

// EventOrderRepository stores purchase orders generated for events
type EventOrderRepository interface {
	// WithDraftLock runs fn while holding exclusive access to the draft of
	// key. Regenerations for other keys are not blocked.
	WithDraftLock(ctx context.Context, key DraftKey, fn func(tx DraftTx) error) error

	GetOrder(ctx context.Context, orderID string) (*entities.EventPurchaseOrder, error)
	ListOrders(ctx context.Context, eventID string) ([]*entities.EventPurchaseOrder, error)
	GetLines(ctx context.Context, orderID string) ([]entities.EventPurchaseOrderLine, error)
	// UpdateStatus moves an order from one status to another. It fails with
	// ErrInvalidStateTransition when the stored status is no longer from.
	UpdateStatus(ctx context.Context, orderID string, from, to entities.EventOrderStatus) error
	// SetLineFreeze fails with ErrOrderNotDraft unless the order is a draft
	SetLineFreeze(ctx context.Context, orderID, lineID string, freeze bool) error
}

// PurchaseOrderRepository stores standalone purchase orders
type PurchaseOrderRepository interface {
	Get(ctx context.Context, id string) (*entities.PurchaseOrder, error)
	Save(ctx context.Context, po *entities.PurchaseOrder) error
	List(ctx context.Context, orgID string) ([]*entities.PurchaseOrder, error)
	// Update loads the order with exclusive access, applies fn and saves the
	// result. Nothing is saved when fn fails.
	Update(ctx context.Context, id string, fn func(po *entities.PurchaseOrder) error) (*entities.PurchaseOrder, error)
}
