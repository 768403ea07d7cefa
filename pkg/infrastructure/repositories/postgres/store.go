package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

// Store bundles the postgres repositories over one connection
type Store struct {
	db             *gorm.DB
	Events         *EventRepository
	Menus          *MenuRepository
	Catalog        *CatalogRepository
	Stock          *StockRepository
	PurchaseOrders *PurchaseOrderRepository
	EventOrders    *EventOrderRepository
	Ledger         *OrderLedger
}

// NewStore creates every repository on db
func NewStore(db *gorm.DB, defaults entities.PurchasingSettings) *Store {
	return &Store{
		db:             db,
		Events:         NewEventRepository(db),
		Menus:          NewMenuRepository(db),
		Catalog:        NewCatalogRepository(db, defaults),
		Stock:          NewStockRepository(db),
		PurchaseOrders: NewPurchaseOrderRepository(db),
		EventOrders:    NewEventOrderRepository(db),
		Ledger:         NewOrderLedger(db),
	}
}

// isUniqueViolation reports whether err carries postgres code 23505
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Ping checks that the database answers
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) SaveEvent(ctx context.Context, event entities.Event) error {
	return s.Events.SaveEvent(ctx, event)
}

func (s *Store) SaveService(ctx context.Context, service entities.EventService) error {
	return s.Events.SaveService(ctx, service)
}

func (s *Store) SaveTemplateItem(ctx context.Context, templateID string, item entities.MenuTemplateItem) error {
	return s.Menus.SaveTemplateItem(ctx, templateID, item)
}

func (s *Store) SaveOverrides(ctx context.Context, serviceID string, overrides entities.ServiceOverrides) error {
	return s.Menus.SaveOverrides(ctx, serviceID, overrides)
}

func (s *Store) SaveSupplierItem(ctx context.Context, orgID string, item entities.SupplierItem) error {
	return s.Catalog.SaveSupplierItem(ctx, orgID, item)
}

func (s *Store) SaveAlias(ctx context.Context, alias entities.Alias) error {
	return s.Catalog.SaveAlias(ctx, alias)
}

func (s *Store) SaveStockLevel(ctx context.Context, level entities.StockLevel) error {
	return s.Stock.SaveStockLevel(ctx, level)
}

func (s *Store) SaveReservation(ctx context.Context, res entities.StockReservation) error {
	return s.Stock.SaveReservation(ctx, res)
}

func (s *Store) SavePurchaseOrder(ctx context.Context, po *entities.PurchaseOrder) error {
	return s.PurchaseOrders.Save(ctx, po)
}

func (s *Store) SavePurchasingSettings(ctx context.Context, orgID string, settings entities.PurchasingSettings) error {
	return s.Catalog.SavePurchasingSettings(ctx, orgID, settings)
}
