package ws

import (
	"net/http"

	"github.com/LanternOps/breeze-viewer/internal/infrastructure/logging"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The API listens on loopback only; webview origins vary by
		// platform shell, so the origin header is not a useful gate.
		return true
	},
}

// Handler upgrades window-content connections and parks them in the hub.
type Handler struct {
	hub *Hub
	log *logging.Logger
}

// NewHandler creates a WebSocket handler backed by the hub.
func NewHandler(hub *Hub, log *logging.Logger) *Handler {
	return &Handler{hub: hub, log: log}
}

// HandleConnection handles GET /ws/:label.
func (h *Handler) HandleConnection(c *gin.Context) {
	label := c.Param("label")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed",
			zap.String("window", label),
			zap.Error(err),
		)
		return
	}

	id := h.hub.Attach(label, conn)
	defer func() {
		h.hub.Detach(label, id)
		conn.Close()
	}()

	// The event stream is one-way; the read loop only consumes client
	// pings and notices disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("Window content connection error",
					zap.String("window", label),
					zap.Error(err),
				)
			}
			return
		}
	}
}
