package memory

import (
	"context"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

// The Save methods let a Store receive a loaded scenario.

func (s *Store) SaveEvent(ctx context.Context, event entities.Event) error {
	s.Events.SaveEvent(event)
	return nil
}

func (s *Store) SaveService(ctx context.Context, service entities.EventService) error {
	s.Events.AddService(service)
	return nil
}

func (s *Store) SaveTemplateItem(ctx context.Context, templateID string, item entities.MenuTemplateItem) error {
	s.Menus.AddTemplateItem(templateID, item)
	return nil
}

func (s *Store) SaveOverrides(ctx context.Context, serviceID string, overrides entities.ServiceOverrides) error {
	s.Menus.SetOverrides(serviceID, overrides)
	return nil
}

func (s *Store) SaveSupplierItem(ctx context.Context, orgID string, item entities.SupplierItem) error {
	s.Catalog.AddSupplierItem(orgID, item)
	return nil
}

func (s *Store) SaveAlias(ctx context.Context, alias entities.Alias) error {
	return s.Catalog.SaveAlias(ctx, alias)
}

func (s *Store) SaveStockLevel(ctx context.Context, level entities.StockLevel) error {
	s.Stock.LoadStockLevels([]entities.StockLevel{level})
	return nil
}

func (s *Store) SaveReservation(ctx context.Context, res entities.StockReservation) error {
	s.Stock.AddReservation(res)
	return nil
}

func (s *Store) SavePurchaseOrder(ctx context.Context, po *entities.PurchaseOrder) error {
	return s.PurchaseOrders.Save(ctx, po)
}

func (s *Store) SavePurchasingSettings(ctx context.Context, orgID string, settings entities.PurchasingSettings) error {
	s.Catalog.SetPurchasingSettings(orgID, settings)
	return nil
}
