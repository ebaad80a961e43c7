package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/trailforge/trailforge/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Local-only daemon: the app webview connects from a file:// origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func newWSClient(conn *websocket.Conn) *wsClient {
	c := &wsClient{
		conn: conn,
		send: make(chan []byte, 16),
	}
	go c.writePump()
	return c
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *wsClient) close() {
	close(c.send)
}

// CelebrationHub pushes celebration events to connected UI clients as they
// are queued. Slow clients drop events rather than blocking the engine.
type CelebrationHub struct {
	mu      sync.Mutex
	clients map[*wsClient]bool
}

// NewCelebrationHub creates an empty hub.
func NewCelebrationHub() *CelebrationHub {
	return &CelebrationHub{clients: make(map[*wsClient]bool)}
}

// Broadcast sends one celebration to every connected client.
func (h *CelebrationHub) Broadcast(c domain.Celebration) {
	data, err := json.Marshal(c)
	if err != nil {
		log.Printf("[ws] marshal celebration: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Client too slow — drop the event
		}
	}
}

// HandleWS upgrades the connection and keeps it until the client leaves.
func (h *CelebrationHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade: %v", err)
		return
	}

	client := newWSClient(conn)
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	// Read loop only to detect disconnect; inbound messages are ignored.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	if h.clients[client] {
		delete(h.clients, client)
		client.close()
	}
	h.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (h *CelebrationHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
