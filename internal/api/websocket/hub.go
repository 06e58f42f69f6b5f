// Package websocket pushes store events to connected clients.
package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"path"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Clients only send control frames.
	maxMessageSize = 512

	sendBuffer = 64
)

// Event is the wire form of a store event.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	At   time.Time   `json:"at"`
}

// Client is one websocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks clients and fans out broadcasts.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	stopped    bool
	mu         sync.RWMutex

	upgrader websocket.Upgrader
}

// NewHub creates a hub accepting connections from origins matching one of
// allowedOrigins (path.Match patterns against scheme://host[:port]). With
// no patterns only same-host requests are accepted.
func NewHub(allowedOrigins ...string) *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(patterns []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if len(patterns) == 0 {
			return u.Host == r.Host
		}
		base := u.Scheme + "://" + u.Host
		for _, p := range patterns {
			if ok, _ := path.Match(p, base); ok {
				return true
			}
		}
		return false
	}
}

// Run is the hub loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Println("[WebSocketHub] Stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WebSocketHub] Client connected. Total clients: %d", n)

		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WebSocketHub] Client disconnected. Total clients: %d", n)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client
					h.drop(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop removes a client; h.mu must be held.
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

// BroadcastEvent sends event to every client. It reports false once the
// hub has stopped.
func (h *Hub) BroadcastEvent(event Event) bool {
	if h.IsStopped() {
		return false
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WebSocketHub] Error marshaling event %s: %v", event.Type, err)
		return false
	}

	select {
	case h.broadcast <- data:
		return true
	case <-h.done:
		return false
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop shuts the hub down. Safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

// IsStopped reports whether the hub has stopped.
func (h *Hub) IsStopped() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stopped
}

// ServeWs upgrades the request and registers the client.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	if h.IsStopped() {
		http.Error(w, "WebSocket hub is not running", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WebSocketHub] Upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	select {
	case h.register <- client:
		go client.writePump()
		go client.readPump()
	case <-h.done:
		if err := conn.Close(); err != nil {
			log.Printf("[WebSocketHub] Close error: %v", err)
		}
	}
}

// readPump discards client messages and keeps the read deadline alive.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WebSocketHub] Read error: %v", err)
			}
			return
		}
	}
}

// writePump sends one text frame per event and pings on idle.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WebSocketHub] Write error: %v", err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
