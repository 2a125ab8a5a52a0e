package telemetry

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/abs/pkg/component"
)

// EventType identifies a lifecycle event.
type EventType string

const (
	EventInitialized EventType = "initialized"
	EventDestroyed   EventType = "destroyed"
	EventFailed      EventType = "failed"
	EventPass        EventType = "pass"
)

// Event is sent to WebSocket clients.
type Event struct {
	Type       EventType         `json:"type"`
	Tag        string            `json:"tag,omitempty"`
	Error      string            `json:"error,omitempty"`
	Report     *component.Report `json:"report,omitempty"`
	DurationMS float64           `json:"durationMs,omitempty"`
	Time       time.Time         `json:"time"`
}

// Hub is a component.Observer that broadcasts events to WebSocket clients.
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	writeMu  sync.Mutex // gorilla connections allow one concurrent writer
	upgrader websocket.Upgrader
	now      func() time.Time
}

var _ component.Observer = (*Hub)(nil)

// NewHub creates a hub with no clients.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		now: time.Now,
	}
}

// HandleWebSocket upgrades the request and keeps the client registered
// until it disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Clients never send anything meaningful; read until they go away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// ComponentInitialized implements component.Observer.
func (h *Hub) ComponentInitialized(tag string) {
	h.broadcast(Event{Type: EventInitialized, Tag: tag})
}

// ComponentDestroyed implements component.Observer.
func (h *Hub) ComponentDestroyed(tag string) {
	h.broadcast(Event{Type: EventDestroyed, Tag: tag})
}

// InitFailed implements component.Observer.
func (h *Hub) InitFailed(err error) {
	h.broadcast(Event{Type: EventFailed, Error: err.Error()})
}

// PassCompleted implements component.Observer.
func (h *Hub) PassCompleted(r component.Report, elapsed time.Duration) {
	h.broadcast(Event{
		Type:       EventPass,
		Report:     &r,
		DurationMS: float64(elapsed.Microseconds()) / 1000,
	})
}

// broadcast sends an event to all connected clients, dropping clients
// whose write fails.
func (h *Hub) broadcast(ev Event) {
	h.mu.RLock()
	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	ev.Time = h.now()
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.mu.Lock()
			delete(h.clients, client)
			h.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
	}
	h.clients = make(map[*websocket.Conn]bool)
}
