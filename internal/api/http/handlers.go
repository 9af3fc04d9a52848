package http

import (
	"errors"
	"net/http"

	"github.com/LanternOps/breeze-viewer/internal/domain/routing"
	"github.com/LanternOps/breeze-viewer/internal/infrastructure/logging"
	"github.com/LanternOps/breeze-viewer/internal/infrastructure/webview"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the frontend-callable operations.
type Handler struct {
	router  *routing.Router
	windows *webview.Host
	log     *logging.Logger
}

// NewHandler creates the frontend API handler.
func NewHandler(router *routing.Router, windows *webview.Host, log *logging.Logger) *Handler {
	return &Handler{
		router:  router,
		windows: windows,
		log:     log,
	}
}

// Register mounts the frontend routes on the group.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("/windows/:label/deeplink", h.GetPendingLink)
	group.DELETE("/windows/:label/deeplink", h.ClearPendingLink)
	group.POST("/windows/:label/session", h.RegisterSession)
	group.DELETE("/windows/:label/session", h.UnregisterSession)
	group.DELETE("/windows/:label", h.CloseWindow)
	group.GET("/state", h.State)
}

// GetPendingLink returns the stored link for a window without
// consuming it; 204 when none is stored.
func (h *Handler) GetPendingLink(c *gin.Context) {
	label := c.Param("label")
	url, ok := h.router.GetPendingLink(label)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// ClearPendingLink removes a window's stored link after the frontend
// has applied it.
func (h *Handler) ClearPendingLink(c *gin.Context) {
	h.router.ClearPendingLink(c.Param("label"))
	c.Status(http.StatusNoContent)
}

type registerSessionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// RegisterSession binds the window to its now-connected remote session.
func (h *Handler) RegisterSession(c *gin.Context) {
	label := c.Param("label")

	var req registerSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}
	h.router.RegisterSession(label, req.SessionID)
	c.Status(http.StatusNoContent)
}

// UnregisterSession drops the window's session binding on disconnect.
func (h *Handler) UnregisterSession(c *gin.Context) {
	h.router.UnregisterSession(c.Param("label"))
	c.Status(http.StatusNoContent)
}

// CloseWindow destroys a window on frontend request. The destroy
// signal prunes routing state through the usual lifecycle path.
func (h *Handler) CloseWindow(c *gin.Context) {
	label := c.Param("label")
	if err := h.windows.DestroyWindow(label); err != nil {
		if errors.Is(err, webview.ErrNoWindow) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such window"})
			return
		}
		h.log.Warn("Failed to close window",
			zap.String("window", label),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to close window"})
		return
	}
	c.Status(http.StatusNoContent)
}

// State reports routing bookkeeping counts and open windows.
func (h *Handler) State(c *gin.Context) {
	stats := h.router.Stats()
	c.JSON(http.StatusOK, gin.H{
		"pending_links":   stats.PendingLinks,
		"active_sessions": stats.ActiveSessions,
		"windows":         h.windows.Labels(),
	})
}
