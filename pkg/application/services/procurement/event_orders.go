package procurement

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/eventprocure/pkg/application/dto"
	"github.com/vsinha/eventprocure/pkg/application/services/demand"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/domain/repositories"
	"github.com/vsinha/eventprocure/pkg/domain/services"
	"github.com/vsinha/eventprocure/pkg/infrastructure/events"
)

// Service is the entry point for event procurement: planning, alias
// resolution and the manual actions users take on event orders
type Service struct {
	events      repositories.EventRepository
	catalog     repositories.CatalogRepository
	orders      repositories.EventOrderRepository
	aggregator  *demand.Aggregator
	synthesizer *Synthesizer
	audit       events.EventStore
	logger      *zap.Logger
}

// NewService creates a new procurement service
func NewService(
	eventRepo repositories.EventRepository,
	catalog repositories.CatalogRepository,
	orders repositories.EventOrderRepository,
	aggregator *demand.Aggregator,
	synthesizer *Synthesizer,
	audit events.EventStore,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		events:      eventRepo,
		catalog:     catalog,
		orders:      orders,
		aggregator:  aggregator,
		synthesizer: synthesizer,
		audit:       audit,
		logger:      logger,
	}
}

// EventDemand aggregates the needs of an event without touching orders
func (s *Service) EventDemand(ctx context.Context, eventID string) (*dto.EventDemand, error) {
	return s.aggregator.Aggregate(ctx, eventID)
}

// Resolve maps the needs of an event to the org's catalog
func (s *Service) Resolve(ctx context.Context, eventID string) (*services.Resolution, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event %s: %w", eventID, err)
	}
	d, err := s.aggregator.Aggregate(ctx, eventID)
	if err != nil {
		return nil, err
	}
	aliases, items, err := s.loadCatalog(ctx, event.OrgID)
	if err != nil {
		return nil, err
	}
	res := services.ResolveNeedsToCatalog(d.Needs, aliases, items)
	return &res, nil
}

// PlanEvent aggregates the event's demand and synthesizes its draft orders
// against the current catalog
func (s *Service) PlanEvent(ctx context.Context, eventID string) (*dto.PlanResult, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event %s: %w", eventID, err)
	}

	d, err := s.aggregator.Aggregate(ctx, eventID)
	if err != nil {
		return nil, err
	}

	aliases, items, err := s.loadCatalog(ctx, event.OrgID)
	if err != nil {
		return nil, err
	}

	synthesis, err := s.synthesizer.SynthesizeEventDraftOrders(ctx, dto.SynthesisRequest{
		OrgID:         event.OrgID,
		HotelID:       event.HotelID,
		EventID:       event.ID,
		Needs:         d.Needs,
		Aliases:       aliases,
		SupplierItems: items,
	})
	if err != nil {
		return nil, err
	}

	return &dto.PlanResult{Demand: d, Synthesis: synthesis}, nil
}

func (s *Service) loadCatalog(ctx context.Context, orgID string) ([]entities.Alias, []entities.SupplierItem, error) {
	aliases, err := s.catalog.ListAliases(ctx, orgID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list aliases for org %s: %w", orgID, err)
	}
	items, err := s.catalog.ListSupplierItems(ctx, orgID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list supplier items for org %s: %w", orgID, err)
	}
	return aliases, items, nil
}

// CreateAlias maps a free-text label to a supplier item of the org. An
// existing alias for the same normalized label is repointed.
func (s *Service) CreateAlias(ctx context.Context, orgID, label, supplierItemID string) (*entities.Alias, error) {
	normalized := services.NormalizeLabel(label)
	if normalized == "" {
		return nil, fmt.Errorf("%w: alias label cannot be empty", entities.ErrInvalidInput)
	}

	items, err := s.catalog.ListSupplierItems(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list supplier items for org %s: %w", orgID, err)
	}
	found := false
	for _, item := range items {
		if item.ID == supplierItemID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("supplier item %s: %w", supplierItemID, entities.ErrNotFound)
	}

	alias := entities.Alias{
		ID:              uuid.NewString(),
		OrgID:           orgID,
		NormalizedLabel: normalized,
		SupplierItemID:  supplierItemID,
	}
	if err := s.catalog.SaveAlias(ctx, alias); err != nil {
		return nil, fmt.Errorf("failed to save alias %q: %w", normalized, err)
	}

	s.logger.Info("alias created",
		zap.String("org_id", orgID),
		zap.String("label", normalized),
		zap.String("supplier_item_id", supplierItemID))
	if err := events.Record(s.audit, events.AliasCreatedEvent, "alias:"+orgID, events.AliasCreated{Alias: alias}); err != nil {
		s.logger.Warn("failed to record audit event", zap.Error(err))
	}
	return &alias, nil
}

// ListEventOrders returns every order of an event with lines and totals
func (s *Service) ListEventOrders(ctx context.Context, eventID string) ([]dto.EventOrderView, error) {
	orders, err := s.orders.ListOrders(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders of event %s: %w", eventID, err)
	}

	views := make([]dto.EventOrderView, 0, len(orders))
	for _, o := range orders {
		lines, err := s.orders.GetLines(ctx, o.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load lines of order %s: %w", o.ID, err)
		}
		total := decimal.Zero
		for _, l := range lines {
			total = total.Add(l.LineTotal)
		}
		views = append(views, dto.EventOrderView{Order: *o, Lines: lines, Total: total})
	}
	return views, nil
}

// SendEventOrder marks a draft event order as sent to its supplier
func (s *Service) SendEventOrder(ctx context.Context, orderID string) error {
	return s.transition(ctx, orderID, entities.EventOrderSent)
}

// CancelEventOrder cancels a draft or sent event order
func (s *Service) CancelEventOrder(ctx context.Context, orderID string) error {
	return s.transition(ctx, orderID, entities.EventOrderCancelled)
}

func (s *Service) transition(ctx context.Context, orderID string, to entities.EventOrderStatus) error {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status == to {
		return nil
	}
	if !order.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: event order %s is %s, cannot become %s",
			entities.ErrInvalidStateTransition, orderID, order.Status, to)
	}
	if err := s.orders.UpdateStatus(ctx, orderID, order.Status, to); err != nil {
		return fmt.Errorf("failed to update event order %s: %w", orderID, err)
	}

	s.logger.Info("event order status changed",
		zap.String("order_id", orderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(to)))
	if err := events.Record(s.audit, events.EventOrderStatusEvent, events.EventOrderStream(order.EventID),
		events.EventOrderStatusChanged{OrderID: orderID, From: order.Status, To: to}); err != nil {
		s.logger.Warn("failed to record audit event", zap.Error(err))
	}
	return nil
}

// ErrOrderNotDraft is returned when freezing lines of a sent or cancelled order
var ErrOrderNotDraft = entities.ErrOrderNotDraft

// SetLineFreeze freezes or releases a line of a draft event order. Frozen
// lines survive regeneration unchanged.
func (s *Service) SetLineFreeze(ctx context.Context, orderID, lineID string, freeze bool) error {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != entities.EventOrderDraft {
		return fmt.Errorf("%w: order %s is %s", ErrOrderNotDraft, orderID, order.Status)
	}
	if err := s.orders.SetLineFreeze(ctx, orderID, lineID, freeze); err != nil {
		return err
	}
	if err := events.Record(s.audit, events.EventOrderLineFrozenEvent, events.EventOrderStream(order.EventID),
		events.EventOrderLineFreezeChanged{OrderID: orderID, LineID: lineID, Freeze: freeze}); err != nil {
		s.logger.Warn("failed to record audit event", zap.Error(err))
	}
	return nil
}

// IsAbort reports whether a synthesis result stopped before writing
func IsAbort(r *dto.SynthesisResult) bool {
	return r != nil && r.Status != dto.SynthesisCreated
}

// SummarizeUnknown lists unknown labels for messages
func SummarizeUnknown(r *dto.SynthesisResult) string {
	labels := make([]string, 0, len(r.Unknown))
	for _, n := range r.Unknown {
		labels = append(labels, n.Label)
	}
	return strings.Join(labels, ", ")
}
