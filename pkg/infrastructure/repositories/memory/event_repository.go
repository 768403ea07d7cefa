package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
	"github.com/vsinha/eventprocure/pkg/domain/repositories"
)

// EventRepository provides in-memory event and service storage
type EventRepository struct {
	mu       sync.RWMutex
	events   map[string]entities.Event
	services map[string][]entities.EventService
}

// NewEventRepository creates a new in-memory event repository
func NewEventRepository() *EventRepository {
	return &EventRepository{
		events:   make(map[string]entities.Event),
		services: make(map[string][]entities.EventService),
	}
}

// Verify interface compliance
var _ repositories.EventRepository = (*EventRepository)(nil)

// SaveEvent stores an event, replacing any previous version
func (r *EventRepository) SaveEvent(event entities.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = event
}

// AddService attaches a service to its event, replacing a service with the
// same id
func (r *EventRepository) AddService(service entities.EventService) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.services[service.EventID] {
		if existing.ID == service.ID {
			r.services[service.EventID][i] = service
			return
		}
	}
	r.services[service.EventID] = append(r.services[service.EventID], service)
}

// GetEvent retrieves an event by id
func (r *EventRepository) GetEvent(ctx context.Context, eventID string) (*entities.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", eventID, entities.ErrNotFound)
	}
	return &event, nil
}

// ListServices returns the services of an event ordered by start time then id
func (r *EventRepository) ListServices(ctx context.Context, eventID string) ([]*entities.EventService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.EventService, 0, len(r.services[eventID]))
	for i := range r.services[eventID] {
		svc := r.services[eventID][i]
		result = append(result, &svc)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].StartsAt.Equal(result[j].StartsAt) {
			return result[i].StartsAt.Before(result[j].StartsAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// MenuRepository provides in-memory menu templates and overrides
type MenuRepository struct {
	mu        sync.RWMutex
	templates map[string][]entities.MenuTemplateItem
	overrides map[string]entities.ServiceOverrides
}

// NewMenuRepository creates a new in-memory menu repository
func NewMenuRepository() *MenuRepository {
	return &MenuRepository{
		templates: make(map[string][]entities.MenuTemplateItem),
		overrides: make(map[string]entities.ServiceOverrides),
	}
}

var _ repositories.MenuRepository = (*MenuRepository)(nil)

// AddTemplateItem appends an item to a template
func (r *MenuRepository) AddTemplateItem(templateID string, item entities.MenuTemplateItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[templateID] = append(r.templates[templateID], item)
}

// SetOverrides replaces the overrides of a service
func (r *MenuRepository) SetOverrides(serviceID string, overrides entities.ServiceOverrides) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[serviceID] = overrides
}

// GetTemplateItems returns the items of a template, empty when it is unknown
func (r *MenuRepository) GetTemplateItems(ctx context.Context, templateID string) ([]entities.MenuTemplateItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]entities.MenuTemplateItem, len(r.templates[templateID]))
	copy(items, r.templates[templateID])
	return items, nil
}

// GetOverrides returns the overrides of a service, zero value when none
func (r *MenuRepository) GetOverrides(ctx context.Context, serviceID string) (entities.ServiceOverrides, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.overrides[serviceID], nil
}
