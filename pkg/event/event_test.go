// pkg/event/event_test.go
package event

import (
	"sync"
	"testing"
)

// TestNewEventBus_Creation_ReturnsInitializedBus tests event bus creation
func TestNewEventBus_Creation_ReturnsInitializedBus(t *testing.T) {
	bus := NewEventBus()

	if bus == nil {
		t.Fatal("NewEventBus() returned nil")
	}
	if bus.handlers == nil {
		t.Error("handlers map not initialized")
	}
	if bus.nextID != 1 {
		t.Errorf("expected nextID to be 1, got %d", bus.nextID)
	}
}

func TestBaseEvent_GetType_ReturnsCorrectType(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		source    interface{}
	}{
		{"simulation started", SimulationStarted, "engine"},
		{"gravity toggled", GravityToggled, 42},
		{"nil source", ObstacleContact, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &BaseEvent{EventType: tt.eventType, Source: tt.source}

			if event.GetType() != tt.eventType {
				t.Errorf("GetType() = %v, want %v", event.GetType(), tt.eventType)
			}
			if event.GetSource() != tt.source {
				t.Errorf("GetSource() = %v, want %v", event.GetSource(), tt.source)
			}
		})
	}
}

func TestBusSubscribe_MultipleHandlers_UniqueIDs(t *testing.T) {
	bus := NewEventBus()

	id1 := bus.Subscribe(ObstacleContact, func(Event) {})
	id2 := bus.Subscribe(ObstacleContact, func(Event) {})
	id3 := bus.Subscribe(GravityToggled, func(Event) {})

	if id1 == 0 || id1 == id2 || id2 == id3 {
		t.Errorf("expected unique non-zero ids, got %d %d %d", id1, id2, id3)
	}
	if got := len(bus.handlers[ObstacleContact]); got != 2 {
		t.Errorf("expected 2 contact handlers, got %d", got)
	}
	if !bus.HasSubscribers(GravityToggled) {
		t.Error("expected gravity subscriber")
	}
	if bus.HasSubscribers(FrameStepped) {
		t.Error("expected no frame subscribers")
	}
}

func TestBusPublish_WithSubscribers_CallsHandlersInOrder(t *testing.T) {
	bus := NewEventBus()
	var order []int

	bus.Subscribe(SimulationStarted, func(Event) { order = append(order, 1) })
	bus.Subscribe(SimulationStarted, func(Event) { order = append(order, 2) })
	bus.Subscribe(SimulationStopped, func(Event) { order = append(order, 3) })

	bus.Publish(&BaseEvent{EventType: SimulationStarted, Source: "test"})

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("expected handlers [1 2], got %v", order)
	}
}

func TestBusPublish_NoSubscribers_NoError(t *testing.T) {
	bus := NewEventBus()
	bus.Publish(&BaseEvent{EventType: FrameStepped})
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	calls := 0

	keep := bus.Subscribe(ObstacleContact, func(Event) { calls++ })
	drop := bus.Subscribe(ObstacleContact, func(Event) { calls += 10 })
	other := bus.Subscribe(GravityToggled, func(Event) {})

	if !bus.Unsubscribe(drop) {
		t.Fatal("Unsubscribe() returned false for a registered id")
	}
	if bus.Unsubscribe(drop) {
		t.Error("second Unsubscribe() should return false")
	}

	bus.Publish(NewContactEvent(nil, 1, 0, 0))
	if calls != 1 {
		t.Errorf("expected only remaining handler to run, calls = %d", calls)
	}

	bus.Unsubscribe(other)
	if bus.HasSubscribers(GravityToggled) {
		t.Error("gravity handlers should be removed")
	}
	if _, ok := bus.handlers[GravityToggled]; ok {
		t.Error("empty handler slice should be deleted")
	}

	bus.Unsubscribe(keep)
	if bus.HasSubscribers(ObstacleContact) {
		t.Error("contact handlers should be removed")
	}
}

func TestBus_ConcurrentAccess_ThreadSafe(t *testing.T) {
	bus := NewEventBus()
	var wg sync.WaitGroup
	var mu sync.Mutex
	received := 0

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := bus.Subscribe(FrameStepped, func(Event) {
				mu.Lock()
				received++
				mu.Unlock()
			})
			bus.Publish(NewFrameEvent(nil, 0, 0.016, 0))
			bus.Unsubscribe(id)
		}()
	}
	wg.Wait()

	if bus.HasSubscribers(FrameStepped) {
		t.Error("all subscriptions should be gone")
	}
	if received == 0 {
		t.Error("expected at least one delivered event")
	}
}

func TestEventConstructors(t *testing.T) {
	contact := NewContactEvent("world", 7, 3, 1)
	if contact.GetType() != ObstacleContact || contact.Tick != 7 || contact.Particle != 3 || contact.Obstacle != 1 {
		t.Errorf("unexpected contact event %+v", contact)
	}
	if contact.GetSource() != "world" {
		t.Errorf("unexpected source %v", contact.GetSource())
	}

	gravity := NewGravityEvent(nil, false)
	if gravity.GetType() != GravityToggled || gravity.Enabled {
		t.Errorf("unexpected gravity event %+v", gravity)
	}

	frame := NewFrameEvent(nil, 9, 0.5, 4)
	if frame.GetType() != FrameStepped || frame.Tick != 9 || frame.DT != 0.5 || frame.Contacts != 4 {
		t.Errorf("unexpected frame event %+v", frame)
	}
}
