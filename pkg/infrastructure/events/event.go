package events

import (
	"time"
)

// Event is one recorded change to procurement data
type Event interface {
	Type() string
	StreamID() string
	Data() interface{}
	Timestamp() time.Time
	// Version is the 1-based position of the event within its stream
	Version() int
}

// EventStore keeps the audit trail of event orders, purchase orders and
// aliases, grouped in streams
type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
}

// Handler is called with every event of the types it subscribed to, after
// the event is stored
type Handler func(Event)

// Entry is the stored form of an event
type Entry struct {
	EventType     string      `json:"type"`
	Stream        string      `json:"stream"`
	Payload       interface{} `json:"data"`
	RecordedAt    time.Time   `json:"recorded_at"`
	StreamVersion int         `json:"version"`
}

func (e Entry) Type() string         { return e.EventType }
func (e Entry) StreamID() string     { return e.Stream }
func (e Entry) Data() interface{}    { return e.Payload }
func (e Entry) Timestamp() time.Time { return e.RecordedAt }
func (e Entry) Version() int         { return e.StreamVersion }

// NewEvent creates an unversioned entry stamped with the current time. The
// store assigns the version on append.
func NewEvent(eventType, streamID string, data interface{}) Event {
	return Entry{
		EventType:  eventType,
		Stream:     streamID,
		Payload:    data,
		RecordedAt: time.Now().UTC(),
	}
}

// Record appends a new event to store, doing nothing when store is nil
func Record(store EventStore, eventType, streamID string, data interface{}) error {
	if store == nil {
		return nil
	}
	return store.AppendEvent(streamID, NewEvent(eventType, streamID, data))
}
