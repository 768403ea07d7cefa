package dto

import "github.com/vsinha/eventprocure/pkg/domain/entities"

// MissingService is a service that contributes no needs to its event
type MissingService struct {
	ServiceID string `json:"service_id"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
}

const (
	MissingReasonNoTemplate    = "no_template"
	MissingReasonEmptyTemplate = "empty_template"
)

// EventDemand is the combined need list of every service of an event
type EventDemand struct {
	EventID         string                  `json:"event_id"`
	Services        []entities.ServiceNeeds `json:"services"`
	Needs           []entities.Need         `json:"needs"`
	MissingServices []MissingService        `json:"missing_services"`
	Warnings        []string                `json:"warnings,omitempty"`
}
