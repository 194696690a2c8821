package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"relief-service/internal/logging"
	"relief-service/internal/models"
)

const (
	writeWait      = 5 * time.Second
	maxConnections = 256
	sendBuffer     = 16
)

// client is one dashboard. Only its writePump writes to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts toasts to every connected dashboard websocket. A dashboard
// that falls sendBuffer toasts behind is disconnected.
type Hub struct {
	upgrader    websocket.Upgrader
	connections map[*client]struct{}
	mutex       sync.Mutex
	logger      *logging.Logger
}

func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		connections: make(map[*client]struct{}),
		logger:      logger,
	}
}

// ServeWS upgrades the request and keeps the connection registered until the
// client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}
	c, ok := h.add(conn)
	if !ok {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too many connections"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	go h.writePump(c)
	defer h.remove(c)

	// Dashboards only listen; reading drives close/ping handling.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) add(conn *websocket.Conn) (*client, bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if len(h.connections) >= maxConnections {
		h.logger.Warnf("Max websocket connections reached (%d)", maxConnections)
		return nil, false
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.connections[c] = struct{}{}
	h.logger.Infof("Added WebSocket connection (total: %d)", len(h.connections))
	return c, true
}

func (h *Hub) remove(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.removeLocked(c)
}

// removeLocked unregisters c and closes its send channel, which ends its
// writePump. It must be called with mutex held.
func (h *Hub) removeLocked(c *client) {
	if _, ok := h.connections[c]; !ok {
		return
	}
	delete(h.connections, c)
	close(c.send)
	h.logger.Infof("Removed WebSocket connection (remaining: %d)", len(h.connections))
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for message := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.logger.Errorf("Failed to send WebSocket message: %v", err)
			h.remove(c)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "closing"),
		time.Now().Add(writeWait))
}

// Len returns the number of connected dashboards.
func (h *Hub) Len() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.connections)
}

// Notify queues the toast for every dashboard without waiting on the network.
func (h *Hub) Notify(_ context.Context, toast models.Toast) {
	message, err := json.Marshal(toast)
	if err != nil {
		h.logger.Errorf("Failed to encode toast: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for c := range h.connections {
		select {
		case c.send <- message:
		default:
			h.logger.Warnf("WebSocket client too slow, disconnecting")
			h.removeLocked(c)
		}
	}
}

// Close disconnects every dashboard.
func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for c := range h.connections {
		h.removeLocked(c)
	}
}
