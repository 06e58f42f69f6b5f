package events

import (
	"log"
	"strings"
)

// LoggingObserver logs all events for debugging purposes.
type LoggingObserver struct {
	name    string
	verbose bool
}

// NewLoggingObserver creates a new observer that logs events.
func NewLoggingObserver(verbose bool) *LoggingObserver {
	return &LoggingObserver{
		name:    "LoggingObserver",
		verbose: verbose,
	}
}

// OnEvent logs the event details.
func (o *LoggingObserver) OnEvent(event Event) error {
	if o.verbose {
		log.Printf("[%s] Event: %s, Payload: %+v", o.name, event.Type, event.Payload)
	} else {
		log.Printf("[%s] Event: %s", o.name, event.Type)
	}
	return nil
}

// GetName returns the observer's name.
func (o *LoggingObserver) GetName() string {
	return o.name
}

// ShouldHandle returns true for all events.
func (o *LoggingObserver) ShouldHandle(string) bool {
	return true
}

// FuncObserver adapts a function to Observer, optionally limited to the
// events of given stores ("collection", "pack", ...).
type FuncObserver struct {
	name   string
	fn     func(Event) error
	stores map[string]bool
}

// NewFuncObserver creates an observer calling fn. With no stores it
// receives every event.
func NewFuncObserver(name string, fn func(Event) error, stores ...string) *FuncObserver {
	o := &FuncObserver{name: name, fn: fn}
	if len(stores) > 0 {
		o.stores = make(map[string]bool, len(stores))
		for _, s := range stores {
			o.stores[s] = true
		}
	}
	return o
}

// OnEvent calls the wrapped function.
func (o *FuncObserver) OnEvent(event Event) error {
	return o.fn(event)
}

// GetName returns the observer's name.
func (o *FuncObserver) GetName() string {
	return o.name
}

// ShouldHandle filters by the store prefix of eventType.
func (o *FuncObserver) ShouldHandle(eventType string) bool {
	if o.stores == nil {
		return true
	}
	store, _, _ := strings.Cut(eventType, ":")
	return o.stores[store]
}
