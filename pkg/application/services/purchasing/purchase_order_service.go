package purchasing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/eventprocure/pkg/application/dto"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/domain/repositories"
	"github.com/vsinha/eventprocure/pkg/domain/services"
	"github.com/vsinha/eventprocure/pkg/infrastructure/events"
)

// Service manages standalone purchase orders
type Service struct {
	orders repositories.PurchaseOrderRepository
	stock  repositories.StockRepository
	audit  events.EventStore
	logger *zap.Logger
}

// NewService creates a new purchase order service. audit may be nil.
func NewService(orders repositories.PurchaseOrderRepository, stock repositories.StockRepository, audit events.EventStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{orders: orders, stock: stock, audit: audit, logger: logger}
}

// LineInput describes one line of a new purchase order
type LineInput struct {
	SupplierItemID string           `json:"supplier_item_id"`
	ItemLabel      string           `json:"item_label"`
	Qty            decimal.Decimal  `json:"qty"`
	PurchaseUnit   entities.Unit    `json:"purchase_unit"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateInput describes a new purchase order
type CreateInput struct {
	OrgID       string      `json:"org_id"`
	HotelID     string      `json:"hotel_id"`
	SupplierID  string      `json:"supplier_id"`
	OrderNumber string      `json:"order_number"`
	Lines       []LineInput `json:"lines"`
}

// Create stores a new draft purchase order
func (s *Service) Create(ctx context.Context, in CreateInput) (*entities.PurchaseOrder, error) {
	if in.OrgID == "" || in.HotelID == "" || in.SupplierID == "" {
		return nil, fmt.Errorf("%w: org, hotel and supplier are required", entities.ErrInvalidInput)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: purchase order needs at least one line", entities.ErrInvalidInput)
	}

	po := &entities.PurchaseOrder{
		ID:          uuid.NewString(),
		OrgID:       in.OrgID,
		HotelID:     in.HotelID,
		SupplierID:  in.SupplierID,
		OrderNumber: in.OrderNumber,
		Status:      entities.PODraft,
		Lines:       make([]entities.PurchaseOrderLine, 0, len(in.Lines)),
	}
	for i, l := range in.Lines {
		line, err := entities.NewPurchaseOrderLine(uuid.NewString(), l.SupplierItemID, l.ItemLabel, l.Qty, l.PurchaseUnit, l.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		po.Lines = append(po.Lines, *line)
	}

	if err := s.orders.Save(ctx, po); err != nil {
		return nil, fmt.Errorf("failed to save purchase order: %w", err)
	}
	return po, nil
}

// Get returns a purchase order with computed totals
func (s *Service) Get(ctx context.Context, id string) (*dto.PurchaseOrderView, error) {
	po, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return view(po), nil
}

// List returns every purchase order of an org with totals
func (s *Service) List(ctx context.Context, orgID string) ([]dto.PurchaseOrderView, error) {
	pos, err := s.orders.List(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	views := make([]dto.PurchaseOrderView, 0, len(pos))
	for _, po := range pos {
		views = append(views, *view(po))
	}
	return views, nil
}

func view(po *entities.PurchaseOrder) *dto.PurchaseOrderView {
	totals := make([]decimal.Decimal, 0, len(po.Lines))
	for _, l := range po.Lines {
		totals = append(totals, services.LineTotal(l))
	}
	return &dto.PurchaseOrderView{Order: *po, LineTotals: totals, Total: services.OrderTotal(po)}
}

// Transition moves a purchase order to another status. Requesting the
// current status is a no-op.
func (s *Service) Transition(ctx context.Context, id string, to entities.PurchaseOrderStatus) (*entities.PurchaseOrder, error) {
	var (
		from    entities.PurchaseOrderStatus
		changed bool
	)
	po, err := s.orders.Update(ctx, id, func(po *entities.PurchaseOrder) error {
		from = po.Status
		var err error
		changed, err = services.TransitionPurchaseOrder(po, to)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return po, nil
	}

	s.logger.Info("purchase order status changed",
		zap.String("purchase_order_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	s.record(events.PurchaseOrderTransitioned, id, events.PurchaseOrderStatusChanged{PurchaseOrderID: id, From: from, To: to})
	return po, nil
}

// Receive books a delivered quantity against a line and adds it to stock.
// The order becomes received once every line is delivered in full. Stock is
// adjusted while the order is locked and taken back out if the order cannot
// be saved.
func (s *Service) Receive(ctx context.Context, id, lineID string, qty decimal.Decimal) (*entities.PurchaseOrder, error) {
	var (
		hotelID  string
		itemID   string
		adjusted bool
	)
	po, err := s.orders.Update(ctx, id, func(po *entities.PurchaseOrder) error {
		line, err := services.RecordReceipt(po, lineID, qty)
		if err != nil {
			return err
		}
		hotelID, itemID = po.HotelID, line.SupplierItemID

		if services.FullyReceived(po) {
			if _, err := services.TransitionPurchaseOrder(po, entities.POReceived); err != nil {
				return err
			}
		}
		if err := s.stock.Adjust(ctx, hotelID, itemID, qty); err != nil {
			return fmt.Errorf("failed to add received stock of %s: %w", itemID, err)
		}
		adjusted = true
		return nil
	})
	if err != nil {
		if adjusted {
			if undoErr := s.stock.Adjust(ctx, hotelID, itemID, qty.Neg()); undoErr != nil {
				s.logger.Error("failed to take back stock of unsaved receipt",
					zap.String("purchase_order_id", id),
					zap.String("supplier_item_id", itemID),
					zap.Error(undoErr))
			}
		}
		return nil, err
	}

	s.logger.Info("purchase order receipt booked",
		zap.String("purchase_order_id", id),
		zap.String("line_id", lineID),
		zap.String("qty", qty.String()),
		zap.String("status", string(po.Status)))
	s.record(events.PurchaseOrderReceivedEvent, id, events.PurchaseOrderReceived{
		PurchaseOrderID: id, LineID: lineID, SupplierItemID: itemID, Quantity: qty,
	})
	return po, nil
}

func (s *Service) record(eventType, poID string, data interface{}) {
	if err := events.Record(s.audit, eventType, events.PurchaseOrderStream(poID), data); err != nil {
		s.logger.Warn("failed to record audit event", zap.String("type", eventType), zap.Error(err))
	}
}
