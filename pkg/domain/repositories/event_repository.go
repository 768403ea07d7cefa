package repositories

import (
	"context"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

// EventRepository provides access to events and their services
type EventRepository interface {
	GetEvent(ctx context.Context, eventID string) (*entities.Event, error)
	ListServices(ctx context.Context, eventID string) ([]*entities.EventService, error)
}

// MenuRepository provides read-only access to menu templates and the
// per-service overrides applied to them
type MenuRepository interface {
	GetTemplateItems(ctx context.Context, templateID string) ([]entities.MenuTemplateItem, error)
	GetOverrides(ctx context.Context, serviceID string) (entities.ServiceOverrides, error)
}
