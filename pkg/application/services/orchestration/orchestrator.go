package orchestration

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/eventprocure/pkg/application/dto"
	"github.com/vsinha/eventprocure/pkg/application/services/demand"
	"github.com/vsinha/eventprocure/pkg/application/services/procurement"
	"github.com/vsinha/eventprocure/pkg/application/services/purchasing"
	"github.com/vsinha/eventprocure/pkg/domain/repositories"
	"github.com/vsinha/eventprocure/pkg/infrastructure/events"
)

// Repositories is every store the services read or write
type Repositories struct {
	Events         repositories.EventRepository
	Menus          repositories.MenuRepository
	Catalog        repositories.CatalogRepository
	Settings       repositories.SettingsRepository
	Stock          repositories.StockRepository
	Ledger         repositories.OrderLedger
	EventOrders    repositories.EventOrderRepository
	PurchaseOrders repositories.PurchaseOrderRepository
}

// Validate reports the first missing repository
func (r Repositories) Validate() error {
	switch {
	case r.Events == nil:
		return fmt.Errorf("events repository is not configured")
	case r.Menus == nil:
		return fmt.Errorf("menus repository is not configured")
	case r.Catalog == nil:
		return fmt.Errorf("catalog repository is not configured")
	case r.Settings == nil:
		return fmt.Errorf("settings repository is not configured")
	case r.Stock == nil:
		return fmt.Errorf("stock repository is not configured")
	case r.Ledger == nil:
		return fmt.Errorf("order ledger is not configured")
	case r.EventOrders == nil:
		return fmt.Errorf("event order repository is not configured")
	case r.PurchaseOrders == nil:
		return fmt.Errorf("purchase order repository is not configured")
	}
	return nil
}

// Orchestrator wires the application services over one set of repositories
type Orchestrator struct {
	Demand      *demand.Aggregator
	Synthesizer *procurement.Synthesizer
	Procurement *procurement.Service
	Purchasing  *purchasing.Service
	Audit       events.EventStore
}

// NewOrchestrator creates every service. audit may be nil.
func NewOrchestrator(repos Repositories, audit events.EventStore, logger *zap.Logger) (*Orchestrator, error) {
	if err := repos.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	agg := demand.NewAggregator(repos.Events, repos.Menus, logger.Named("demand"))
	synth := procurement.NewSynthesizer(repos.Events, repos.Stock, repos.Ledger, repos.EventOrders, repos.Settings, audit, logger.Named("synthesizer"))

	return &Orchestrator{
		Demand:      agg,
		Synthesizer: synth,
		Procurement: procurement.NewService(repos.Events, repos.Catalog, repos.EventOrders, agg, synth, audit, logger.Named("procurement")),
		Purchasing:  purchasing.NewService(repos.PurchaseOrders, repos.Stock, audit, logger.Named("purchasing")),
		Audit:       audit,
	}, nil
}

// PlanResult is a plan together with the resulting order views
type PlanResult struct {
	Plan   *dto.PlanResult       `json:"plan"`
	Orders []dto.EventOrderView `json:"orders"`
}

// PlanEvent plans an event and returns every order it now has
func (o *Orchestrator) PlanEvent(ctx context.Context, eventID string) (*PlanResult, error) {
	plan, err := o.Procurement.PlanEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to plan event %s: %w", eventID, err)
	}
	orders, err := o.Procurement.ListEventOrders(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &PlanResult{Plan: plan, Orders: orders}, nil
}
