// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	SimulationStarted Type = "simulation_started"
	SimulationStopped Type = "simulation_stopped"
	GravityToggled    Type = "gravity_toggled"
	ObstacleContact   Type = "obstacle_contact"
	FrameStepped      Type = "frame_stepped"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// SubscriptionID identifies a registered handler
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run synchronously
// on the publishing goroutine, in subscription order.
type Bus struct {
	handlers map[Type][]subscription
	nextID   SubscriptionID
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscription),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a handler. It reports whether the id was registered.
func (b *Bus) Unsubscribe(id SubscriptionID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.handlers {
		for i, s := range subs {
			if s.id != id {
				continue
			}
			remaining := make([]subscription, 0, len(subs)-1)
			remaining = append(remaining, subs[:i]...)
			remaining = append(remaining, subs[i+1:]...)
			if len(remaining) == 0 {
				delete(b.handlers, eventType)
			} else {
				b.handlers[eventType] = remaining
			}
			return true
		}
	}
	return false
}

// HasSubscribers reports whether any handler listens for eventType
func (b *Bus) HasSubscribers(eventType Type) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType]) > 0
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// ContactEvent reports a particle touching an obstacle during the collision pass
type ContactEvent struct {
	BaseEvent
	Tick     uint64
	Particle int
	Obstacle int
}

// NewContactEvent creates a new contact event
func NewContactEvent(source interface{}, tick uint64, particle, obstacle int) *ContactEvent {
	return &ContactEvent{
		BaseEvent: BaseEvent{
			EventType: ObstacleContact,
			Source:    source,
		},
		Tick:     tick,
		Particle: particle,
		Obstacle: obstacle,
	}
}

// GravityEvent reports the gravity switch changing state
type GravityEvent struct {
	BaseEvent
	Enabled bool
}

// NewGravityEvent creates a new gravity toggle event
func NewGravityEvent(source interface{}, enabled bool) *GravityEvent {
	return &GravityEvent{
		BaseEvent: BaseEvent{
			EventType: GravityToggled,
			Source:    source,
		},
		Enabled: enabled,
	}
}

// FrameEvent reports a completed simulation step
type FrameEvent struct {
	BaseEvent
	Tick     uint64
	DT       float64
	Contacts int
}

// NewFrameEvent creates a new frame event
func NewFrameEvent(source interface{}, tick uint64, dt float64, contacts int) *FrameEvent {
	return &FrameEvent{
		BaseEvent: BaseEvent{
			EventType: FrameStepped,
			Source:    source,
		},
		Tick:     tick,
		DT:       dt,
		Contacts: contacts,
	}
}
