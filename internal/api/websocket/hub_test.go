package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, hub *Hub) (*websocket.Conn, func()) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		server.Close()
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	return conn, func() {
		conn.Close()
		server.Close()
	}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients, got %d", want, hub.ClientCount())
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub.clients == nil {
		t.Error("Hub clients map is nil")
	}
	if hub.IsStopped() {
		t.Error("New hub should not be stopped")
	}
	if count := hub.ClientCount(); count != 0 {
		t.Errorf("Expected 0 clients, got %d", count)
	}
}

func TestEvent_JSON(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	event := Event{
		Type: "collection:updated",
		Data: map[string]interface{}{"cardId": "OGN-001", "quantity": 2},
		At:   at,
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Failed to marshal event: %v", err)
	}

	var decoded Event
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal event: %v", err)
	}
	if decoded.Type != "collection:updated" {
		t.Errorf("Expected type collection:updated, got %s", decoded.Type)
	}
	if !decoded.At.Equal(at) {
		t.Errorf("Expected at %v, got %v", at, decoded.At)
	}
	dataMap, ok := decoded.Data.(map[string]interface{})
	if !ok {
		t.Fatal("Expected Data to be a map")
	}
	if q, ok := dataMap["quantity"].(float64); !ok || int(q) != 2 {
		t.Errorf("Expected quantity=2, got %v", dataMap["quantity"])
	}
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	if !hub.BroadcastEvent(Event{Type: "test:event"}) {
		t.Error("Broadcast on a running hub should be accepted")
	}
}

func TestHub_WebSocketConnection(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	conn, cleanup := dialHub(t, hub)
	defer cleanup()
	waitForClients(t, hub, 1)

	hub.BroadcastEvent(Event{Type: "pack:updated", Data: map[string]int{"currency": 400}})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}

	var received Event
	if err := json.Unmarshal(message, &received); err != nil {
		t.Fatalf("Failed to unmarshal received message: %v", err)
	}
	if received.Type != "pack:updated" {
		t.Errorf("Expected type pack:updated, got %s", received.Type)
	}
}

func TestHub_MultipleClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	var conns []*websocket.Conn
	for i := 0; i < 3; i++ {
		conn, cleanup := dialHub(t, hub)
		defer cleanup()
		conns = append(conns, conn)
	}
	waitForClients(t, hub, 3)

	hub.BroadcastEvent(Event{Type: "deck:updated", Data: map[string]int{"count": 1}})

	for i, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, message, err := conn.ReadMessage()
		if err != nil {
			t.Errorf("Client %d failed to read message: %v", i, err)
			continue
		}
		var received Event
		if err := json.Unmarshal(message, &received); err != nil {
			t.Errorf("Client %d failed to unmarshal message: %v", i, err)
			continue
		}
		if received.Type != "deck:updated" {
			t.Errorf("Client %d expected type deck:updated, got %s", i, received.Type)
		}
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	conn, cleanup := dialHub(t, hub)
	defer cleanup()
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestHub_Stop(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	conn, cleanup := dialHub(t, hub)
	defer cleanup()
	waitForClients(t, hub, 1)

	hub.Stop()
	hub.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}

	if !hub.IsStopped() {
		t.Error("Hub should report stopped")
	}
	if hub.BroadcastEvent(Event{Type: "test:event"}) {
		t.Error("Broadcast after Stop should be refused")
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected the connection to be closed after Stop")
	}

	rec := httptest.NewRecorder()
	hub.ServeWs(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 after Stop, got %d", rec.Code)
	}
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		host     string
		origin   string
		want     bool
	}{
		{"no origin header", nil, "localhost:8080", "", true},
		{"same host without patterns", nil, "localhost:8080", "http://localhost:8080", true},
		{"other host without patterns", nil, "localhost:8080", "http://evil.example", false},
		{"wildcard port", []string{"http://localhost:*"}, "localhost:8080", "http://localhost:5173", true},
		{"pattern mismatch", []string{"http://localhost:*"}, "localhost:8080", "https://evil.example", false},
		{"malformed origin", []string{"*"}, "localhost:8080", "://bad", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := originChecker(tt.patterns)(r); got != tt.want {
				t.Errorf("originChecker() = %v, want %v", got, tt.want)
			}
		})
	}
}
