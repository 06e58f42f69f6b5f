package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ramonehamilton/riftbound-companion/internal/events"
)

func TestObserver_GetName(t *testing.T) {
	observer := NewObserver(NewHub())
	if name := observer.GetName(); name != "WebSocketObserver" {
		t.Errorf("Expected name WebSocketObserver, got %s", name)
	}
}

func TestObserver_ShouldHandle(t *testing.T) {
	observer := NewObserver(NewHub())
	for _, eventType := range []string{events.CollectionUpdated, events.PackUpdated, "anything"} {
		if !observer.ShouldHandle(eventType) {
			t.Errorf("Expected observer to handle %s", eventType)
		}
	}
}

func TestObserver_OnEvent_NilHub(t *testing.T) {
	observer := NewObserver(nil)
	if err := observer.OnEvent(events.Event{Type: events.StatsUpdated}); err != nil {
		t.Errorf("Expected no error with nil hub, got %v", err)
	}
}

func TestObserver_OnEvent_ForwardsPayload(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	conn, cleanup := dialHub(t, hub)
	defer cleanup()
	waitForClients(t, hub, 1)

	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	dispatcher := events.NewEventDispatcher()
	dispatcher.Register(NewObserver(hub))
	dispatcher.Dispatch(events.Event{
		Type:    events.CollectionUpdated,
		Payload: events.CollectionUpdatedEvent{CardID: "OGN-042", Quantity: 3, UniqueCards: 1, TotalCards: 3},
		At:      at,
	})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}

	var received struct {
		Type string                        `json:"type"`
		Data events.CollectionUpdatedEvent `json:"data"`
		At   time.Time                     `json:"at"`
	}
	if err := json.Unmarshal(message, &received); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if received.Type != events.CollectionUpdated {
		t.Errorf("Expected type %s, got %s", events.CollectionUpdated, received.Type)
	}
	if received.Data.CardID != "OGN-042" || received.Data.Quantity != 3 {
		t.Errorf("Unexpected payload: %+v", received.Data)
	}
	if !received.At.Equal(at) {
		t.Errorf("Expected at %v, got %v", at, received.At)
	}
}
