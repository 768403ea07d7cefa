package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/domain/repositories"
)

// PurchaseOrderRepository stores standalone purchase orders with their lines
type PurchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

var _ repositories.PurchaseOrderRepository = (*PurchaseOrderRepository)(nil)

func orderedLines(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *PurchaseOrderRepository) Get(ctx context.Context, id string) (*entities.PurchaseOrder, error) {
	var m PurchaseOrderModel
	err := r.db.WithContext(ctx).Preload("Lines", orderedLines).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("purchase order %s: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase order %s: %w", id, err)
	}
	return m.toEntity(), nil
}

// Save writes the order header and replaces its lines in one transaction
func (r *PurchaseOrderRepository) Save(ctx context.Context, po *entities.PurchaseOrder) error {
	if po.ID == "" {
		return fmt.Errorf("purchase order id cannot be empty")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return savePurchaseOrder(tx, po)
	})
}

func savePurchaseOrder(tx *gorm.DB, po *entities.PurchaseOrder) error {
	m := purchaseOrderModel(po)
	lines := m.Lines
	m.Lines = nil

	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"supplier_id", "order_number", "status", "updated_at"}),
	}).Create(&m).Error; err != nil {
		return fmt.Errorf("failed to save purchase order %s: %w", po.ID, err)
	}
	if err := tx.Where("purchase_order_id = ?", po.ID).Delete(&PurchaseOrderLineModel{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	return tx.Create(&lines).Error
}

// Update locks the order row for the length of one transaction, applies fn
// and saves the result
func (r *PurchaseOrderRepository) Update(ctx context.Context, id string, fn func(po *entities.PurchaseOrder) error) (*entities.PurchaseOrder, error) {
	var po *entities.PurchaseOrder
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m PurchaseOrderModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Lines", orderedLines).
			Where("id = ?", id).
			First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("purchase order %s: %w", id, entities.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to lock purchase order %s: %w", id, err)
		}
		po = m.toEntity()
		if err := fn(po); err != nil {
			return err
		}
		return savePurchaseOrder(tx, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

func (r *PurchaseOrderRepository) List(ctx context.Context, orgID string) ([]*entities.PurchaseOrder, error) {
	var rows []PurchaseOrderModel
	err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		Where("org_id = ?", orgID).
		Order("order_number ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	orders := make([]*entities.PurchaseOrder, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toEntity())
	}
	return orders, nil
}
