package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/domain/repositories"
)

// EventOrderRepository stores event orders in postgres. A draft
// regeneration runs in one transaction holding a row lock on the draft;
// the partial unique index keeps concurrent creators from inserting two.
type EventOrderRepository struct {
	db *gorm.DB
}

func NewEventOrderRepository(db *gorm.DB) *EventOrderRepository {
	return &EventOrderRepository{db: db}
}

var _ repositories.EventOrderRepository = (*EventOrderRepository)(nil)

func (r *EventOrderRepository) WithDraftLock(ctx context.Context, key repositories.DraftKey, fn func(tx repositories.DraftTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&draftTx{db: tx, key: key})
	})
}

type draftTx struct {
	db  *gorm.DB
	key repositories.DraftKey
}

func lockForUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

func (tx *draftTx) UpsertDraft(orderNumber string) (*entities.EventPurchaseOrder, bool, error) {
	candidate := EventOrderModel{
		ID:          uuid.NewString(),
		OrgID:       tx.key.OrgID,
		HotelID:     tx.key.HotelID,
		EventID:     tx.key.EventID,
		SupplierID:  tx.key.SupplierID,
		Status:      string(entities.EventOrderDraft),
		OrderNumber: orderNumber,
	}
	res := tx.db.Clauses(clause.OnConflict{
		Columns:     []clause.Column{{Name: "event_id"}, {Name: "supplier_id"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "status = 'draft'"}}},
		DoNothing:   true,
	}).Create(&candidate)
	if isUniqueViolation(res.Error) {
		return nil, false, fmt.Errorf("%w: order number %s is taken", entities.ErrConflict, orderNumber)
	}
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to upsert draft for supplier %s: %w", tx.key.SupplierID, res.Error)
	}

	var m EventOrderModel
	err := tx.db.Clauses(lockForUpdate()).
		Where("event_id = ? AND supplier_id = ? AND status = ?", tx.key.EventID, tx.key.SupplierID, entities.EventOrderDraft).
		First(&m).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock draft for supplier %s: %w", tx.key.SupplierID, err)
	}
	return m.toEntity(), res.RowsAffected == 1, nil
}

func (tx *draftTx) ListLines(orderID string) ([]entities.EventPurchaseOrderLine, error) {
	var rows []EventOrderLineModel
	if err := tx.db.Where("order_id = ?", orderID).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list lines of %s: %w", orderID, err)
	}
	lines := make([]entities.EventPurchaseOrderLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, row.toEntity())
	}
	return lines, nil
}

func (tx *draftTx) DeleteLines(lineIDs []string) error {
	if len(lineIDs) == 0 {
		return nil
	}
	return tx.db.Where("id IN ?", lineIDs).Delete(&EventOrderLineModel{}).Error
}

func (tx *draftTx) InsertLines(lines []entities.EventPurchaseOrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	var next struct{ Position int }
	err := tx.db.Raw(`SELECT COALESCE(MAX(position) + 1, 0) AS position FROM event_purchase_order_lines WHERE order_id = ?`,
		lines[0].OrderID).Scan(&next).Error
	if err != nil {
		return err
	}

	rows := make([]EventOrderLineModel, 0, len(lines))
	for i, line := range lines {
		if line.ID == "" {
			line.ID = uuid.NewString()
		}
		rows = append(rows, eventOrderLineModel(line, next.Position+i))
	}
	return tx.db.Create(&rows).Error
}

func (tx *draftTx) DeleteOrder(orderID string) error {
	if err := tx.db.Where("order_id = ?", orderID).Delete(&EventOrderLineModel{}).Error; err != nil {
		return err
	}
	return tx.db.Where("id = ?", orderID).Delete(&EventOrderModel{}).Error
}

func (r *EventOrderRepository) GetOrder(ctx context.Context, orderID string) (*entities.EventPurchaseOrder, error) {
	return getOrder(r.db.WithContext(ctx), orderID)
}

func getOrder(db *gorm.DB, orderID string) (*entities.EventPurchaseOrder, error) {
	var m EventOrderModel
	err := db.Where("id = ?", orderID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("event order %s: %w", orderID, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event order %s: %w", orderID, err)
	}
	return m.toEntity(), nil
}

func (r *EventOrderRepository) ListOrders(ctx context.Context, eventID string) ([]*entities.EventPurchaseOrder, error) {
	var rows []EventOrderModel
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders of event %s: %w", eventID, err)
	}
	orders := make([]*entities.EventPurchaseOrder, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toEntity())
	}
	entities.SortEventOrders(orders)
	return orders, nil
}

func (r *EventOrderRepository) GetLines(ctx context.Context, orderID string) ([]entities.EventPurchaseOrderLine, error) {
	db := r.db.WithContext(ctx)
	if _, err := getOrder(db, orderID); err != nil {
		return nil, err
	}
	return (&draftTx{db: db}).ListLines(orderID)
}

// UpdateStatus waits for the row lock held by a running regeneration and
// checks the status again under it
func (r *EventOrderRepository) UpdateStatus(ctx context.Context, orderID string, from, to entities.EventOrderStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := getOrder(tx.Clauses(lockForUpdate()), orderID)
		if err != nil {
			return err
		}
		if order.Status != from {
			return fmt.Errorf("%w: event order %s is %s, not %s",
				entities.ErrInvalidStateTransition, orderID, order.Status, from)
		}
		return tx.Model(&EventOrderModel{}).Where("id = ?", orderID).Update("status", string(to)).Error
	})
}

func (r *EventOrderRepository) SetLineFreeze(ctx context.Context, orderID, lineID string, freeze bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := getOrder(tx.Clauses(lockForUpdate()), orderID)
		if err != nil {
			return err
		}
		if order.Status != entities.EventOrderDraft {
			return fmt.Errorf("%w: order %s is %s", entities.ErrOrderNotDraft, orderID, order.Status)
		}
		res := tx.Model(&EventOrderLineModel{}).
			Where("id = ? AND order_id = ?", lineID, orderID).
			Update("freeze", freeze)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("line %s on event order %s: %w", lineID, orderID, entities.ErrNotFound)
		}
		return nil
	})
}
