package entities

import (
	"fmt"
	"time"
)

// Event is a booked catering event
type Event struct {
	ID       string
	OrgID    string
	HotelID  string
	Name     string
	StartsAt time.Time
	EndsAt   time.Time
}

// EventService is one meal sitting of an event
type EventService struct {
	ID         string
	EventID    string
	Name       string
	Pax        int
	Format     ServiceFormat
	TemplateID string // empty when no menu is applied
	StartsAt   time.Time
	EndsAt     time.Time
}

// NewEventService creates a validated EventService
func NewEventService(id, eventID, name string, pax int, format ServiceFormat, templateID string) (*EventService, error) {
	if id == "" {
		return nil, fmt.Errorf("service id cannot be empty")
	}
	if eventID == "" {
		return nil, fmt.Errorf("event id cannot be empty")
	}
	if pax < 0 {
		return nil, fmt.Errorf("pax cannot be negative, got %d", pax)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("unknown service format %q", format)
	}
	return &EventService{
		ID:         id,
		EventID:    eventID,
		Name:       name,
		Pax:        pax,
		Format:     format,
		TemplateID: templateID,
	}, nil
}

// TimeWindow is a half-open interval used for reservation overlap checks
type TimeWindow struct {
	From time.Time
	To   time.Time
}

// Overlaps reports whether two windows intersect
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.From.Before(other.To) && other.From.Before(w.To)
}

// Window returns the event's time window
func (e Event) Window() TimeWindow {
	return TimeWindow{From: e.StartsAt, To: e.EndsAt}
}
