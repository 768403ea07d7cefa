package demand

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/eventprocure/pkg/application/dto"
	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/domain/repositories"
	"github.com/vsinha/eventprocure/pkg/domain/services"
)

// Aggregator combines the needs of every service of an event
type Aggregator struct {
	events    repositories.EventRepository
	menus     repositories.MenuRepository
	validator *services.MenuValidator
	logger    *zap.Logger
}

// NewAggregator creates a new demand aggregator
func NewAggregator(events repositories.EventRepository, menus repositories.MenuRepository, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		events:    events,
		menus:     menus,
		validator: services.NewMenuValidator(),
		logger:    logger,
	}
}

// Aggregate derives the needs of each service of the event and flattens
// them into one list. Services without a usable template are reported in
// MissingServices and contribute nothing.
func (a *Aggregator) Aggregate(ctx context.Context, eventID string) (*dto.EventDemand, error) {
	svcs, err := a.events.ListServices(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list services for event %s: %w", eventID, err)
	}

	result := &dto.EventDemand{
		EventID:         eventID,
		Services:        make([]entities.ServiceNeeds, 0, len(svcs)),
		Needs:           make([]entities.Need, 0),
		MissingServices: make([]dto.MissingService, 0),
	}

	for _, svc := range svcs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if svc.TemplateID == "" {
			result.MissingServices = append(result.MissingServices, dto.MissingService{
				ServiceID: svc.ID, Name: svc.Name, Reason: dto.MissingReasonNoTemplate,
			})
			continue
		}

		items, err := a.menus.GetTemplateItems(ctx, svc.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("failed to load template %s for service %s: %w", svc.TemplateID, svc.ID, err)
		}
		if len(items) == 0 {
			result.MissingServices = append(result.MissingServices, dto.MissingService{
				ServiceID: svc.ID, Name: svc.Name, Reason: dto.MissingReasonEmptyTemplate,
			})
			continue
		}

		overrides, err := a.menus.GetOverrides(ctx, svc.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load overrides for service %s: %w", svc.ID, err)
		}

		if check := a.validator.ValidateOverrides(items, overrides); check.HasWarnings() {
			for _, w := range check.Warnings {
				result.Warnings = append(result.Warnings, fmt.Sprintf("service %s: %s", svc.ID, w))
			}
			a.logger.Warn("menu overrides need attention",
				zap.String("event_id", eventID),
				zap.String("service_id", svc.ID),
				zap.Strings("warnings", check.Warnings))
		}

		needs, err := services.ComputeServiceNeeds(svc.Pax, svc.Format, items, overrides)
		if err != nil {
			return nil, fmt.Errorf("failed to derive needs for service %s: %w", svc.ID, err)
		}

		result.Services = append(result.Services, entities.ServiceNeeds{
			ServiceID: svc.ID,
			Name:      svc.Name,
			Needs:     needs,
		})
		result.Needs = append(result.Needs, needs...)
	}

	a.logger.Debug("event demand aggregated",
		zap.String("event_id", eventID),
		zap.Int("services", len(result.Services)),
		zap.Int("needs", len(result.Needs)),
		zap.Int("missing_services", len(result.MissingServices)))

	return result, nil
}
