package events

import (
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInMemoryEventStore_AppendAndRead(t *testing.T) {
	store := NewInMemoryEventStore(nil)
	stream := EventOrderStream("E1")

	if err := Record(store, EventOrderDraftedEvent, stream, EventOrderDrafted{InsertedLines: 2}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := Record(store, EventOrderRemovedEvent, stream, EventOrderRemoved{OrderID: "O1"}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := Record(store, AliasCreatedEvent, "alias:org1", AliasCreated{}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	evs, err := store.ReadEvents(stream, 1)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("expected 2 events in stream, got %d", len(evs))
	}
	if evs[0].Version() != 1 || evs[1].Version() != 2 {
		t.Errorf("expected versions 1 and 2, got %d and %d", evs[0].Version(), evs[1].Version())
	}
	if evs[1].Type() != EventOrderRemovedEvent {
		t.Errorf("expected removed event second, got %s", evs[1].Type())
	}

	from2, _ := store.ReadEvents(stream, 2)
	if len(from2) != 1 {
		t.Errorf("expected 1 event from version 2, got %d", len(from2))
	}
	all, _ := store.ReadAllEvents(0)
	if len(all) != 3 || all[2].Version() != 1 {
		t.Errorf("expected 3 events overall with the alias first in its stream, got %d", len(all))
	}
	tail, _ := store.ReadAllEvents(2)
	if len(tail) != 1 || tail[0].Type() != AliasCreatedEvent {
		t.Errorf("expected alias event at position 2, got %v", tail)
	}
	missing, _ := store.ReadEvents("event:none", 1)
	if len(missing) != 0 {
		t.Errorf("expected empty stream, got %d", len(missing))
	}
	if err := store.AppendEvent("", NewEvent(AliasCreatedEvent, "", nil)); err == nil {
		t.Errorf("expected event without stream to be rejected")
	}
}

func TestInMemoryEventStore_ReadsAreCopies(t *testing.T) {
	store := NewInMemoryEventStore(nil)
	_ = Record(store, AliasCreatedEvent, "alias:org1", AliasCreated{})

	all, _ := store.ReadAllEvents(0)
	all[0] = NewEvent("tampered", "alias:org1", nil)
	stream, _ := store.ReadEvents("alias:org1", 1)
	stream[0] = nil

	again, _ := store.ReadAllEvents(0)
	if again[0].Type() != AliasCreatedEvent {
		t.Errorf("caller changes leaked into the store: %s", again[0].Type())
	}
	fromStream, _ := store.ReadEvents("alias:org1", 1)
	if fromStream[0] == nil {
		t.Errorf("caller changes leaked into the stream")
	}
}

func TestInMemoryEventStore_ConcurrentAppendAndRead(t *testing.T) {
	store := NewInMemoryEventStore(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = Record(store, EventOrderDraftedEvent, EventOrderStream("E1"), EventOrderDrafted{})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				evs, _ := store.ReadAllEvents(0)
				for _, e := range evs {
					_ = e.Type()
				}
			}
		}()
	}
	wg.Wait()

	evs, _ := store.ReadEvents(EventOrderStream("E1"), 1)
	if len(evs) != 400 || evs[399].Version() != 400 {
		t.Errorf("expected 400 versioned events, got %d", len(evs))
	}
}

func TestInMemoryEventStore_Subscribe(t *testing.T) {
	store := NewInMemoryEventStore(nil)

	var drafted, everything []string
	cancel := store.Subscribe(func(e Event) { drafted = append(drafted, e.Type()) }, EventOrderDraftedEvent)
	store.Subscribe(func(e Event) { everything = append(everything, e.Type()) })
	store.Subscribe(func(e Event) { panic("broken handler") }, EventOrderRemovedEvent)

	_ = Record(store, EventOrderDraftedEvent, EventOrderStream("E1"), EventOrderDrafted{})
	_ = Record(store, EventOrderRemovedEvent, EventOrderStream("E1"), EventOrderRemoved{})

	if len(drafted) != 1 || len(everything) != 2 {
		t.Fatalf("expected 1 drafted and 2 total deliveries, got %v and %v", drafted, everything)
	}

	cancel()
	_ = Record(store, EventOrderDraftedEvent, EventOrderStream("E1"), EventOrderDrafted{})
	if len(drafted) != 1 {
		t.Errorf("expected no delivery after cancel, got %v", drafted)
	}
	if len(everything) != 3 {
		t.Errorf("expected catch-all handler to keep receiving, got %v", everything)
	}
}

func TestLogTo(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	store := NewInMemoryEventStore(nil)
	store.Subscribe(LogTo(zap.New(core)))

	_ = Record(store, AliasCreatedEvent, "alias:org1", AliasCreated{})

	entries := logs.FilterMessage("change recorded").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["type"] != AliasCreatedEvent || fields["stream"] != "alias:org1" || fields["version"] != int64(1) {
		t.Errorf("unexpected fields %v", fields)
	}
}

func TestRecord_NilStore(t *testing.T) {
	if err := Record(nil, AliasCreatedEvent, "alias:x", nil); err != nil {
		t.Errorf("expected nil store to be ignored, got %v", err)
	}
}
