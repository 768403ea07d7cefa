package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

// Rows are converted to entities at this boundary; nothing outside the
// package sees a model.

type EventModel struct {
	ID       string    `gorm:"primaryKey;type:varchar(64)"`
	OrgID    string    `gorm:"type:varchar(64);not null;index"`
	HotelID  string    `gorm:"type:varchar(64);not null"`
	Name     string    `gorm:"type:varchar(255)"`
	StartsAt time.Time `gorm:"not null"`
	EndsAt   time.Time `gorm:"not null"`
}

func (EventModel) TableName() string { return "events" }

func (m EventModel) toEntity() *entities.Event {
	return &entities.Event{
		ID:       m.ID,
		OrgID:    m.OrgID,
		HotelID:  m.HotelID,
		Name:     m.Name,
		StartsAt: m.StartsAt,
		EndsAt:   m.EndsAt,
	}
}

type EventServiceModel struct {
	ID         string    `gorm:"primaryKey;type:varchar(64)"`
	EventID    string    `gorm:"type:varchar(64);not null;index"`
	Name       string    `gorm:"type:varchar(255)"`
	Pax        int       `gorm:"not null"`
	Format     string    `gorm:"type:varchar(16);not null"`
	TemplateID string    `gorm:"type:varchar(64)"`
	StartsAt   time.Time
	EndsAt     time.Time
}

func (EventServiceModel) TableName() string { return "event_services" }

func (m EventServiceModel) toEntity() *entities.EventService {
	return &entities.EventService{
		ID:         m.ID,
		EventID:    m.EventID,
		Name:       m.Name,
		Pax:        m.Pax,
		Format:     entities.ServiceFormat(m.Format),
		TemplateID: m.TemplateID,
		StartsAt:   m.StartsAt,
		EndsAt:     m.EndsAt,
	}
}

// MenuItemColumns is shared by template items and override rows
type MenuItemColumns struct {
	Name                string           `gorm:"type:varchar(255)"`
	Section             string           `gorm:"type:varchar(64)"`
	Unit                string           `gorm:"type:varchar(16)"`
	QtyPerSeatedGuest   decimal.Decimal  `gorm:"type:numeric(18,6);not null;default:0"`
	QtyPerStandingGuest decimal.Decimal  `gorm:"type:numeric(18,6);not null;default:0"`
	RoundingRule        string           `gorm:"type:varchar(16)"`
	PackSize            *decimal.Decimal `gorm:"type:numeric(18,6)"`
	Notes               string           `gorm:"type:text"`
}

func (c MenuItemColumns) toEntity(itemID string) entities.MenuTemplateItem {
	return entities.MenuTemplateItem{
		ID:                  itemID,
		Name:                c.Name,
		Section:             c.Section,
		Unit:                entities.Unit(c.Unit),
		QtyPerSeatedGuest:   c.QtyPerSeatedGuest,
		QtyPerStandingGuest: c.QtyPerStandingGuest,
		RoundingRule:        entities.RoundingRule(c.RoundingRule),
		PackSize:            c.PackSize,
		Notes:               c.Notes,
	}
}

func menuItemColumnsFrom(item entities.MenuTemplateItem) MenuItemColumns {
	return MenuItemColumns{
		Name:                item.Name,
		Section:             item.Section,
		Unit:                string(item.Unit),
		QtyPerSeatedGuest:   item.QtyPerSeatedGuest,
		QtyPerStandingGuest: item.QtyPerStandingGuest,
		RoundingRule:        string(item.RoundingRule),
		PackSize:            item.PackSize,
		Notes:               item.Notes,
	}
}

type MenuTemplateItemModel struct {
	TemplateID string `gorm:"primaryKey;type:varchar(64)"`
	ItemID     string `gorm:"primaryKey;type:varchar(64)"`
	Position   int    `gorm:"not null;default:0"`
	MenuItemColumns `gorm:"embedded"`
}

func (MenuTemplateItemModel) TableName() string { return "menu_template_items" }

// Override kinds stored in service_overrides.kind
const (
	overrideExclude = "exclude"
	overrideAdd     = "add"
	overrideReplace = "replace"
)

type ServiceOverrideModel struct {
	ServiceID string `gorm:"primaryKey;type:varchar(64)"`
	Kind      string `gorm:"primaryKey;type:varchar(16)"`
	ItemID    string `gorm:"primaryKey;type:varchar(64)"`
	Position  int    `gorm:"not null;default:0"`
	MenuItemColumns `gorm:"embedded"`
}

func (ServiceOverrideModel) TableName() string { return "service_overrides" }

type SupplierItemModel struct {
	ID           string           `gorm:"primaryKey;type:varchar(64)"`
	OrgID        string           `gorm:"type:varchar(64);not null;index"`
	SupplierID   string           `gorm:"type:varchar(64);not null"`
	Name         string           `gorm:"type:varchar(255);not null"`
	PurchaseUnit string           `gorm:"type:varchar(16);not null"`
	RoundingRule string           `gorm:"type:varchar(16)"`
	PackSize     *decimal.Decimal `gorm:"type:numeric(18,6)"`
	PricePerUnit *decimal.Decimal `gorm:"type:numeric(18,4)"`
	Position     int              `gorm:"not null;default:0"`
}

func (SupplierItemModel) TableName() string { return "supplier_items" }

func (m SupplierItemModel) toEntity() entities.SupplierItem {
	return entities.SupplierItem{
		ID:           m.ID,
		SupplierID:   m.SupplierID,
		Name:         m.Name,
		PurchaseUnit: entities.Unit(m.PurchaseUnit),
		RoundingRule: entities.RoundingRule(m.RoundingRule),
		PackSize:     m.PackSize,
		PricePerUnit: m.PricePerUnit,
	}
}

type AliasModel struct {
	ID              string    `gorm:"primaryKey;type:varchar(64)"`
	OrgID           string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_alias_org_label"`
	NormalizedLabel string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_alias_org_label"`
	SupplierItemID  string    `gorm:"type:varchar(64);not null"`
	CreatedAt       time.Time
}

func (AliasModel) TableName() string { return "item_aliases" }

func (m AliasModel) toEntity() entities.Alias {
	return entities.Alias{
		ID:              m.ID,
		OrgID:           m.OrgID,
		NormalizedLabel: m.NormalizedLabel,
		SupplierItemID:  m.SupplierItemID,
	}
}

type PurchasingSettingsModel struct {
	OrgID         string          `gorm:"primaryKey;type:varchar(64)"`
	BufferPercent decimal.Decimal `gorm:"type:numeric(9,4);not null;default:0"`
	BufferQty     decimal.Decimal `gorm:"type:numeric(18,6);not null;default:0"`
}

func (PurchasingSettingsModel) TableName() string { return "purchasing_settings" }

type StockLevelModel struct {
	HotelID        string          `gorm:"primaryKey;type:varchar(64)"`
	SupplierItemID string          `gorm:"primaryKey;type:varchar(64)"`
	OnHand         decimal.Decimal `gorm:"type:numeric(18,6);not null;default:0"`
	UpdatedAt      time.Time
}

func (StockLevelModel) TableName() string { return "stock_levels" }

type StockReservationModel struct {
	ID             string          `gorm:"primaryKey;type:varchar(64)"`
	HotelID        string          `gorm:"type:varchar(64);not null;index:idx_reservation_item"`
	SupplierItemID string          `gorm:"type:varchar(64);not null;index:idx_reservation_item"`
	EventID        string          `gorm:"type:varchar(64);not null"`
	Quantity       decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	WindowFrom     time.Time       `gorm:"not null"`
	WindowTo       time.Time       `gorm:"not null"`
}

func (StockReservationModel) TableName() string { return "stock_reservations" }

type EventOrderModel struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)"`
	OrgID       string    `gorm:"type:varchar(64);not null;index"`
	HotelID     string    `gorm:"type:varchar(64);not null"`
	EventID     string    `gorm:"type:varchar(64);not null;index;uniqueIndex:idx_event_order_number"`
	SupplierID  string    `gorm:"type:varchar(64);not null"`
	Status      string    `gorm:"type:varchar(16);not null"`
	OrderNumber string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_event_order_number"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (EventOrderModel) TableName() string { return "event_purchase_orders" }

func (m EventOrderModel) toEntity() *entities.EventPurchaseOrder {
	return &entities.EventPurchaseOrder{
		ID:          m.ID,
		OrgID:       m.OrgID,
		HotelID:     m.HotelID,
		EventID:     m.EventID,
		SupplierID:  m.SupplierID,
		Status:      entities.EventOrderStatus(m.Status),
		OrderNumber: m.OrderNumber,
	}
}

type EventOrderLineModel struct {
	ID             string           `gorm:"primaryKey;type:varchar(64)"`
	OrderID        string           `gorm:"type:varchar(64);not null;index"`
	Position       int              `gorm:"not null;default:0"`
	SupplierItemID string           `gorm:"type:varchar(64);not null;index"`
	ItemLabel      string           `gorm:"type:varchar(255)"`
	Qty            decimal.Decimal  `gorm:"type:numeric(18,6);not null"`
	PurchaseUnit   string           `gorm:"type:varchar(16);not null"`
	UnitPrice      *decimal.Decimal `gorm:"type:numeric(18,4)"`
	LineTotal      decimal.Decimal  `gorm:"type:numeric(18,4);not null;default:0"`
	Freeze         bool             `gorm:"not null;default:false"`
	GrossQty       decimal.Decimal  `gorm:"type:numeric(18,6);not null;default:0"`
	OnHandQty      decimal.Decimal  `gorm:"type:numeric(18,6);not null;default:0"`
	OnOrderQty     decimal.Decimal  `gorm:"type:numeric(18,6);not null;default:0"`
	NetQty         decimal.Decimal  `gorm:"type:numeric(18,6);not null;default:0"`
	RoundedQty     decimal.Decimal  `gorm:"type:numeric(18,6);not null;default:0"`
	UnitMismatch   bool             `gorm:"not null;default:false"`
}

func (EventOrderLineModel) TableName() string { return "event_purchase_order_lines" }

func (m EventOrderLineModel) toEntity() entities.EventPurchaseOrderLine {
	return entities.EventPurchaseOrderLine{
		ID:             m.ID,
		OrderID:        m.OrderID,
		SupplierItemID: m.SupplierItemID,
		ItemLabel:      m.ItemLabel,
		Qty:            m.Qty,
		PurchaseUnit:   entities.Unit(m.PurchaseUnit),
		UnitPrice:      m.UnitPrice,
		LineTotal:      m.LineTotal,
		Freeze:         m.Freeze,
		GrossQty:       m.GrossQty,
		OnHandQty:      m.OnHandQty,
		OnOrderQty:     m.OnOrderQty,
		NetQty:         m.NetQty,
		RoundedQty:     m.RoundedQty,
		UnitMismatch:   m.UnitMismatch,
	}
}

func eventOrderLineModel(l entities.EventPurchaseOrderLine, position int) EventOrderLineModel {
	return EventOrderLineModel{
		ID:             l.ID,
		OrderID:        l.OrderID,
		Position:       position,
		SupplierItemID: l.SupplierItemID,
		ItemLabel:      l.ItemLabel,
		Qty:            l.Qty,
		PurchaseUnit:   string(l.PurchaseUnit),
		UnitPrice:      l.UnitPrice,
		LineTotal:      l.LineTotal,
		Freeze:         l.Freeze,
		GrossQty:       l.GrossQty,
		OnHandQty:      l.OnHandQty,
		OnOrderQty:     l.OnOrderQty,
		NetQty:         l.NetQty,
		RoundedQty:     l.RoundedQty,
		UnitMismatch:   l.UnitMismatch,
	}
}

type PurchaseOrderModel struct {
	ID          string                   `gorm:"primaryKey;type:varchar(64)"`
	OrgID       string                   `gorm:"type:varchar(64);not null;index"`
	HotelID     string                   `gorm:"type:varchar(64);not null"`
	SupplierID  string                   `gorm:"type:varchar(64);not null"`
	OrderNumber string                   `gorm:"type:varchar(64)"`
	Status      string                   `gorm:"type:varchar(16);not null"`
	Lines       []PurchaseOrderLineModel `gorm:"foreignKey:PurchaseOrderID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PurchaseOrderModel) TableName() string { return "purchase_orders" }

type PurchaseOrderLineModel struct {
	ID              string           `gorm:"primaryKey;type:varchar(64)"`
	PurchaseOrderID string           `gorm:"type:varchar(64);not null;index"`
	Position        int              `gorm:"not null;default:0"`
	SupplierItemID  string           `gorm:"type:varchar(64);not null;index"`
	ItemLabel       string           `gorm:"type:varchar(255)"`
	RequestedQty    decimal.Decimal  `gorm:"type:numeric(18,6);not null"`
	ReceivedQty     decimal.Decimal  `gorm:"type:numeric(18,6);not null;default:0"`
	PurchaseUnit    string           `gorm:"type:varchar(16);not null"`
	UnitPrice       *decimal.Decimal `gorm:"type:numeric(18,4)"`
}

func (PurchaseOrderLineModel) TableName() string { return "purchase_order_lines" }

func (m PurchaseOrderModel) toEntity() *entities.PurchaseOrder {
	po := &entities.PurchaseOrder{
		ID:          m.ID,
		OrgID:       m.OrgID,
		HotelID:     m.HotelID,
		SupplierID:  m.SupplierID,
		OrderNumber: m.OrderNumber,
		Status:      entities.PurchaseOrderStatus(m.Status),
		Lines:       make([]entities.PurchaseOrderLine, 0, len(m.Lines)),
	}
	for _, l := range m.Lines {
		po.Lines = append(po.Lines, entities.PurchaseOrderLine{
			ID:             l.ID,
			SupplierItemID: l.SupplierItemID,
			ItemLabel:      l.ItemLabel,
			RequestedQty:   l.RequestedQty,
			ReceivedQty:    l.ReceivedQty,
			PurchaseUnit:   entities.Unit(l.PurchaseUnit),
			UnitPrice:      l.UnitPrice,
		})
	}
	return po
}

func purchaseOrderModel(po *entities.PurchaseOrder) PurchaseOrderModel {
	m := PurchaseOrderModel{
		ID:          po.ID,
		OrgID:       po.OrgID,
		HotelID:     po.HotelID,
		SupplierID:  po.SupplierID,
		OrderNumber: po.OrderNumber,
		Status:      string(po.Status),
	}
	for i, l := range po.Lines {
		m.Lines = append(m.Lines, PurchaseOrderLineModel{
			ID:              l.ID,
			PurchaseOrderID: po.ID,
			Position:        i,
			SupplierItemID:  l.SupplierItemID,
			ItemLabel:       l.ItemLabel,
			RequestedQty:    l.RequestedQty,
			ReceivedQty:     l.ReceivedQty,
			PurchaseUnit:    string(l.PurchaseUnit),
			UnitPrice:       l.UnitPrice,
		})
	}
	return m
}

// Models lists every table for AutoMigrate
func Models() []interface{} {
	return []interface{}{
		&EventModel{},
		&EventServiceModel{},
		&MenuTemplateItemModel{},
		&ServiceOverrideModel{},
		&SupplierItemModel{},
		&AliasModel{},
		&PurchasingSettingsModel{},
		&StockLevelModel{},
		&StockReservationModel{},
		&EventOrderModel{},
		&EventOrderLineModel{},
		&PurchaseOrderModel{},
		&PurchaseOrderLineModel{},
	}
}
