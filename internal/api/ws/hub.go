package ws

import (
	"errors"
	"sync"

	"github.com/LanternOps/breeze-viewer/internal/infrastructure/logging"
	"github.com/LanternOps/breeze-viewer/internal/infrastructure/monitoring"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event names pushed to window content.
const (
	EventDeepLink = "deep-link-received"
	EventFocus    = "window-focus"
)

// ErrNotAttached is returned when a window's content has no live
// connection. Callers treat it as a benign race with window startup.
var ErrNotAttached = errors.New("window content not attached")

// Event is the wire format pushed to window content.
type Event struct {
	Event string `json:"event"`
	URL   string `json:"url,omitempty"`
}

// client is one attached window-content connection.
type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes
}

func (c *client) write(evt Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(evt)
}

// Hub tracks the one live connection per window label and pushes
// events to it. A re-attach for the same label replaces the previous
// connection (webview reloads do this).
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewHub creates an empty hub.
func NewHub(log *logging.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		log:     log,
	}
}

// WithMetrics adds metrics tracking to the hub.
func (h *Hub) WithMetrics(metrics *monitoring.Metrics) *Hub {
	h.metrics = metrics
	return h
}

// Attach registers a connection as the window's content channel and
// returns the connection id used for detach bookkeeping.
func (h *Hub) Attach(label string, conn *websocket.Conn) string {
	cl := &client{id: uuid.New().String(), conn: conn}

	h.mu.Lock()
	prev := h.clients[label]
	h.clients[label] = cl
	count := len(h.clients)
	h.mu.Unlock()

	if prev != nil {
		prev.conn.Close()
	}
	if h.metrics != nil {
		h.metrics.WSConnections.Set(float64(count))
	}
	h.log.Info("Window content attached",
		zap.String("window", label),
		zap.String("conn_id", cl.id),
	)
	return cl.id
}

// Detach removes the connection if it is still the current one for the
// label. A replaced connection's deferred detach must not drop its
// successor.
func (h *Hub) Detach(label, id string) {
	h.mu.Lock()
	cl, ok := h.clients[label]
	if ok && cl.id == id {
		delete(h.clients, label)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.WSConnections.Set(float64(count))
	}
	h.log.Info("Window content detached",
		zap.String("window", label),
		zap.String("conn_id", id),
	)
}

// Connected reports whether the window's content is attached.
func (h *Hub) Connected(label string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[label]
	return ok
}

// EmitTo pushes an event to the window's content.
func (h *Hub) EmitTo(label string, evt Event) error {
	h.mu.RLock()
	cl, ok := h.clients[label]
	h.mu.RUnlock()

	if !ok {
		return ErrNotAttached
	}
	return cl.write(evt)
}

// CloseAll drops every connection. Called on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*client)
	h.mu.Unlock()

	for _, cl := range clients {
		cl.conn.Close()
	}
	if h.metrics != nil {
		h.metrics.WSConnections.Set(0)
	}
}
