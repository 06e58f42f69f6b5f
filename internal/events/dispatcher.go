// Package events distributes store mutation notifications to observers.
package events

import (
	"context"
	"log"
	"sync"
	"time"
)

// Event is a notification that a store's state changed.
type Event struct {
	// Type is the event type, "<store>:updated".
	Type string

	// Payload is one of the typed structs in messages.go.
	Payload any

	// At is when the mutation happened.
	At time.Time

	Context context.Context
}

// Observer receives dispatched events.
type Observer interface {
	// OnEvent is called when an event is dispatched.
	// Returns an error if the observer fails to handle the event.
	OnEvent(event Event) error

	// GetName returns a human-readable name for logging.
	GetName() string

	// ShouldHandle reports whether this observer wants events of eventType.
	ShouldHandle(eventType string) bool
}

// Publisher is the dispatch side stores depend on.
type Publisher interface {
	Dispatch(event Event)
}

// EventDispatcher fans events out to registered observers.
// Safe for concurrent use.
type EventDispatcher struct {
	observers []Observer
	mu        sync.RWMutex
}

// NewEventDispatcher creates a new EventDispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		observers: make([]Observer, 0),
	}
}

// Register adds an observer to the dispatcher.
func (d *EventDispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observers = append(d.observers, observer)
	log.Printf("[EventDispatcher] Registered observer: %s", observer.GetName())
}

// Unregister removes an observer from the dispatcher.
func (d *EventDispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, obs := range d.observers {
		if obs == observer {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			log.Printf("[EventDispatcher] Unregistered observer: %s", observer.GetName())
			return
		}
	}
}

func (d *EventDispatcher) snapshot() []Observer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	return observers
}

// Dispatch notifies observers in registration order. Observer errors are
// logged and do not stop delivery to the rest.
func (d *EventDispatcher) Dispatch(event Event) {
	for _, observer := range d.snapshot() {
		if !observer.ShouldHandle(event.Type) {
			continue
		}
		if err := observer.OnEvent(event); err != nil {
			log.Printf("[EventDispatcher] Observer %s failed to handle event %s: %v",
				observer.GetName(), event.Type, err)
		}
	}
}

// DispatchAsync notifies each observer on its own goroutine.
func (d *EventDispatcher) DispatchAsync(event Event) {
	for _, observer := range d.snapshot() {
		if !observer.ShouldHandle(event.Type) {
			continue
		}
		go func(obs Observer) {
			if err := obs.OnEvent(event); err != nil {
				log.Printf("[EventDispatcher] Observer %s failed to handle event %s: %v",
					obs.GetName(), event.Type, err)
			}
		}(observer)
	}
}

// ObserverCount returns the number of registered observers.
func (d *EventDispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

// Clear removes all registered observers.
func (d *EventDispatcher) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = make([]Observer, 0)
	log.Printf("[EventDispatcher] Cleared all observers")
}

// Discard is a Publisher that drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Dispatch(Event) {}

// PayloadAs extracts a typed payload from an Event.
func PayloadAs[T any](event Event) (T, bool) {
	typed, ok := event.Payload.(T)
	return typed, ok
}
