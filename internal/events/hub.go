package events

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sideline-backend/internal/models"
)

// Event is one gallery change notification pushed to connected admin
// clients.
type Event struct {
	Type    string        `json:"type"` // "batch.created" or "batch.deleted"
	BatchID string        `json:"batch_id"`
	Batch   *models.Batch `json:"batch,omitempty"`
	At      time.Time     `json:"at"`
}

// client wraps one subscriber connection. The write mutex serializes
// broadcasts: gorilla/websocket allows at most one concurrent writer.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) write(ev Event) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteJSON(ev)
}

// Hub fans gallery events out to websocket subscribers.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*client

	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
		upgrader: websocket.Upgrader{
			// The API is already CORS-open; the socket carries only
			// non-sensitive change notifications.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = &client{conn: conn}
	h.mu.Unlock()

	// Reads are discarded; the socket is push-only. The read loop exists
	// to detect closure.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.write(ev); err != nil {
			h.drop(c.conn)
		}
	}
}

// BatchCreated implements services.EventPublisher.
func (h *Hub) BatchCreated(batch *models.Batch) {
	h.broadcast(Event{Type: "batch.created", BatchID: batch.ID, Batch: batch, At: time.Now()})
}

// BatchDeleted implements services.EventPublisher.
func (h *Hub) BatchDeleted(id string) {
	h.broadcast(Event{Type: "batch.deleted", BatchID: id, At: time.Now()})
}

// ClientCount reports the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
