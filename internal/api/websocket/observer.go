package websocket

import (
	"github.com/ramonehamilton/riftbound-companion/internal/events"
)

// Observer forwards dispatched store events to websocket clients.
type Observer struct {
	hub *Hub
}

// NewObserver creates an observer broadcasting through hub.
func NewObserver(hub *Hub) *Observer {
	return &Observer{hub: hub}
}

// OnEvent broadcasts the event's typed payload.
func (o *Observer) OnEvent(event events.Event) error {
	if o.hub == nil || o.hub.ClientCount() == 0 {
		return nil
	}
	o.hub.BroadcastEvent(Event{
		Type: event.Type,
		Data: event.Payload,
		At:   event.At,
	})
	return nil
}

// GetName returns the observer's name.
func (o *Observer) GetName() string {
	return "WebSocketObserver"
}

// ShouldHandle accepts every event.
func (o *Observer) ShouldHandle(string) bool {
	return true
}

var _ events.Observer = (*Observer)(nil)
