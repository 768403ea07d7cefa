package events

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// InMemoryEventStore is an append-only audit log. Reads return copies, so
// callers may keep them while other goroutines keep appending.
type InMemoryEventStore struct {
	mu      sync.RWMutex
	log     []Entry
	streams map[string][]int // positions in log per stream

	subMu   sync.RWMutex
	nextSub int
	subs    map[int]subscription

	logger *zap.Logger
}

type subscription struct {
	types   map[string]bool // nil means every type
	handler Handler
}

// NewInMemoryEventStore creates an empty store
func NewInMemoryEventStore(logger *zap.Logger) *InMemoryEventStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventStore{
		streams: make(map[string][]int),
		subs:    make(map[int]subscription),
		logger:  logger,
	}
}

var _ EventStore = (*InMemoryEventStore)(nil)

// AppendEvent stores event at the end of streamID and hands it to the
// matching subscribers on the calling goroutine
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	if streamID == "" {
		return fmt.Errorf("event %s has no stream", event.Type())
	}

	s.mu.Lock()
	entry := Entry{
		EventType:     event.Type(),
		Stream:        streamID,
		Payload:       event.Data(),
		RecordedAt:    event.Timestamp(),
		StreamVersion: len(s.streams[streamID]) + 1,
	}
	s.streams[streamID] = append(s.streams[streamID], len(s.log))
	s.log = append(s.log, entry)
	s.mu.Unlock()

	s.dispatch(entry)
	return nil
}

// ReadEvents returns the events of a stream starting at fromVersion
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	positions := s.streams[streamID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(positions) {
		return []Event{}, nil
	}

	result := make([]Event, 0, len(positions)-fromVersion+1)
	for _, pos := range positions[fromVersion-1:] {
		result = append(result, s.log[pos])
	}
	return result, nil
}

// ReadAllEvents returns every event from a 0-based log position on
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(s.log) {
		return []Event{}, nil
	}

	result := make([]Event, 0, len(s.log)-fromPosition)
	for _, e := range s.log[fromPosition:] {
		result = append(result, e)
	}
	return result, nil
}

// Subscribe registers handler for the given event types, or for every type
// when none are given. The returned func removes the subscription.
func (s *InMemoryEventStore) Subscribe(handler Handler, eventTypes ...string) func() {
	sub := subscription{handler: handler}
	if len(eventTypes) > 0 {
		sub.types = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			sub.types[t] = true
		}
	}

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = sub
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *InMemoryEventStore) dispatch(e Entry) {
	s.subMu.RLock()
	handlers := make([]Handler, 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.types == nil || sub.types[e.EventType] {
			handlers = append(handlers, sub.handler)
		}
	}
	s.subMu.RUnlock()

	for _, h := range handlers {
		s.deliver(h, e)
	}
}

// deliver keeps a panicking handler from taking the writer down with it
func (s *InMemoryEventStore) deliver(h Handler, e Entry) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("event handler panicked",
				zap.String("event_type", e.EventType),
				zap.String("stream", e.Stream),
				zap.Any("panic", r))
		}
	}()
	h(e)
}
