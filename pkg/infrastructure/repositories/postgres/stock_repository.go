package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/domain/repositories"
)

// StockRepository stores on-hand levels and event reservations
type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

var _ repositories.StockRepository = (*StockRepository)(nil)

type sumResult struct {
	Total decimal.Decimal
}

func (r *StockRepository) OnHand(ctx context.Context, hotelID, supplierItemID string) (decimal.Decimal, error) {
	var result sumResult
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(on_hand), 0) AS total
		FROM stock_levels
		WHERE hotel_id = ? AND supplier_item_id = ?
	`, hotelID, supplierItemID).Scan(&result).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read on-hand of %s: %w", supplierItemID, err)
	}
	return result.Total, nil
}

func (r *StockRepository) Reserved(
	ctx context.Context,
	hotelID, supplierItemID string,
	window entities.TimeWindow,
	excludeEventID string,
) (decimal.Decimal, error) {
	var result sumResult
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(quantity), 0) AS total
		FROM stock_reservations
		WHERE hotel_id = ? AND supplier_item_id = ? AND event_id <> ?
		  AND window_from < ? AND window_to > ?
	`, hotelID, supplierItemID, excludeEventID, window.To, window.From).Scan(&result).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read reservations of %s: %w", supplierItemID, err)
	}
	return result.Total, nil
}

// Adjust adds delta to the on-hand level, creating the row when missing
func (r *StockRepository) Adjust(ctx context.Context, hotelID, supplierItemID string, delta decimal.Decimal) error {
	m := StockLevelModel{HotelID: hotelID, SupplierItemID: supplierItemID, OnHand: delta}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "hotel_id"}, {Name: "supplier_item_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"on_hand":    gorm.Expr("stock_levels.on_hand + EXCLUDED.on_hand"),
			"updated_at": gorm.Expr("EXCLUDED.updated_at"),
		}),
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("failed to adjust stock of %s: %w", supplierItemID, err)
	}
	return nil
}

// SaveStockLevel sets the on-hand level of an item
func (r *StockRepository) SaveStockLevel(ctx context.Context, level entities.StockLevel) error {
	m := StockLevelModel{HotelID: level.HotelID, SupplierItemID: level.SupplierItemID, OnHand: level.OnHand}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hotel_id"}, {Name: "supplier_item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"on_hand", "updated_at"}),
	}).Create(&m).Error
}

// SaveReservation records stock held back for an event
func (r *StockRepository) SaveReservation(ctx context.Context, res entities.StockReservation) error {
	m := StockReservationModel{
		ID:             uuid.NewString(),
		HotelID:        res.HotelID,
		SupplierItemID: res.SupplierItemID,
		EventID:        res.EventID,
		Quantity:       res.Quantity,
		WindowFrom:     res.Window.From,
		WindowTo:       res.Window.To,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

// OrderLedger sums undelivered quantities across both order tables
type OrderLedger struct {
	db *gorm.DB
}

func NewOrderLedger(db *gorm.DB) *OrderLedger {
	return &OrderLedger{db: db}
}

var _ repositories.OrderLedger = (*OrderLedger)(nil)

func (l *OrderLedger) OnOrder(ctx context.Context, orgID, supplierItemID, excludeEventID string) (decimal.Decimal, error) {
	var events, pos sumResult

	err := l.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(l.qty), 0) AS total
		FROM event_purchase_order_lines l
		JOIN event_purchase_orders o ON o.id = l.order_id
		WHERE o.org_id = ? AND l.supplier_item_id = ? AND o.event_id <> ?
		  AND o.status IN ?
	`, orgID, supplierItemID, excludeEventID,
		[]string{string(entities.EventOrderDraft), string(entities.EventOrderSent)}).Scan(&events).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum event orders of %s: %w", supplierItemID, err)
	}

	err = l.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(GREATEST(l.requested_qty - l.received_qty, 0)), 0) AS total
		FROM purchase_order_lines l
		JOIN purchase_orders p ON p.id = l.purchase_order_id
		WHERE p.org_id = ? AND l.supplier_item_id = ? AND p.status IN ?
	`, orgID, supplierItemID,
		[]string{string(entities.POApproved), string(entities.POOrdered)}).Scan(&pos).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum purchase orders of %s: %w", supplierItemID, err)
	}

	return events.Total.Add(pos.Total), nil
}
