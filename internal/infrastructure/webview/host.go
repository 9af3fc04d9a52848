package webview

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"sync"

	"github.com/LanternOps/breeze-viewer/internal/api/ws"
	"github.com/LanternOps/breeze-viewer/internal/infrastructure/logging"
	"github.com/LanternOps/breeze-viewer/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

var (
	// ErrWindowExists is returned when a label is already in use.
	ErrWindowExists = errors.New("window label already exists")
	// ErrNoWindow is returned for operations on an unknown label.
	ErrNoWindow = errors.New("no window with that label")
)

// Config describes how window shells are launched.
type Config struct {
	// Command is the webview shell executable. Empty means headless
	// mode: windows are logical records only.
	Command string
	// ContentURL is the frontend URL handed to each shell.
	ContentURL string
	Title      string
	Width      int
	Height     int
}

// window is one live window, process-backed or logical.
type window struct {
	label string
	cmd   *exec.Cmd
}

// Host owns the window table and implements the router's view of the
// window subsystem.
type Host struct {
	mu      sync.Mutex
	windows map[string]*window

	hub     *ws.Hub
	cfg     Config
	log     *logging.Logger
	metrics *monitoring.Metrics

	onDestroyed func(label string)
}

// NewHost creates a window host pushing events through the hub.
func NewHost(hub *ws.Hub, cfg Config, log *logging.Logger) *Host {
	return &Host{
		windows: make(map[string]*window),
		hub:     hub,
		cfg:     cfg,
		log:     log,
	}
}

// WithMetrics adds metrics tracking to the host.
func (h *Host) WithMetrics(metrics *monitoring.Metrics) *Host {
	h.metrics = metrics
	return h
}

// OnDestroyed registers the window-destroyed sink. Must be set before
// the first CreateWindow.
func (h *Host) OnDestroyed(fn func(label string)) {
	h.onDestroyed = fn
}

// CreateWindow opens a new window under the given label.
func (h *Host) CreateWindow(label string) error {
	h.mu.Lock()
	if _, ok := h.windows[label]; ok {
		h.mu.Unlock()
		return fmt.Errorf("create %s: %w", label, ErrWindowExists)
	}

	w := &window{label: label}
	if h.cfg.Command != "" {
		cmd := exec.Command(h.cfg.Command,
			"--label", label,
			"--url", h.cfg.ContentURL,
			"--title", h.cfg.Title,
			"--width", strconv.Itoa(h.cfg.Width),
			"--height", strconv.Itoa(h.cfg.Height),
		)
		if err := cmd.Start(); err != nil {
			h.mu.Unlock()
			return fmt.Errorf("spawn webview shell for %s: %w", label, err)
		}
		w.cmd = cmd
	}
	h.windows[label] = w
	count := len(h.windows)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.WindowsOpen.Set(float64(count))
	}
	h.log.Info("Window opened",
		zap.String("window", label),
		zap.Bool("headless", w.cmd == nil),
	)

	if w.cmd != nil {
		go h.watch(w)
	}
	return nil
}

// watch turns shell process exit into the window-destroyed signal.
func (h *Host) watch(w *window) {
	err := w.cmd.Wait()
	if err != nil {
		h.log.Warn("Webview shell exited with error",
			zap.String("window", w.label),
			zap.Error(err),
		)
	}
	h.finalize(w.label)
}

// finalize removes the window record and fires the destroyed sink.
func (h *Host) finalize(label string) {
	h.mu.Lock()
	_, ok := h.windows[label]
	if ok {
		delete(h.windows, label)
	}
	count := len(h.windows)
	h.mu.Unlock()

	if !ok {
		return
	}
	if h.metrics != nil {
		h.metrics.WindowsOpen.Set(float64(count))
	}
	h.log.Info("Window destroyed", zap.String("window", label))
	if h.onDestroyed != nil {
		h.onDestroyed(label)
	}
}

// DestroyWindow closes a window explicitly. Process-backed windows are
// killed and reaped by their watcher; logical windows finalize here.
func (h *Host) DestroyWindow(label string) error {
	h.mu.Lock()
	w, ok := h.windows[label]
	h.mu.Unlock()

	if !ok {
		return fmt.Errorf("destroy %s: %w", label, ErrNoWindow)
	}
	if w.cmd != nil {
		return w.cmd.Process.Kill()
	}
	h.finalize(label)
	return nil
}

// FocusWindow raises a window by pushing a focus event to its content.
func (h *Host) FocusWindow(label string) error {
	if !h.HasWindow(label) {
		return fmt.Errorf("focus %s: %w", label, ErrNoWindow)
	}
	if err := h.hub.EmitTo(label, ws.Event{Event: ws.EventFocus}); err != nil {
		return fmt.Errorf("focus %s: %w", label, err)
	}
	return nil
}

// EmitLink delivers a deep-link event to the window's content.
func (h *Host) EmitLink(label, url string) error {
	if !h.HasWindow(label) {
		return fmt.Errorf("emit to %s: %w", label, ErrNoWindow)
	}
	if err := h.hub.EmitTo(label, ws.Event{Event: ws.EventDeepLink, URL: url}); err != nil {
		return fmt.Errorf("emit to %s: %w", label, err)
	}
	return nil
}

// HasWindow reports whether a window with the label currently exists.
func (h *Host) HasWindow(label string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.windows[label]
	return ok
}

// Labels returns the labels of all open windows.
func (h *Host) Labels() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	labels := make([]string, 0, len(h.windows))
	for label := range h.windows {
		labels = append(labels, label)
	}
	return labels
}

// Close destroys every window. Called on shutdown.
func (h *Host) Close() {
	for _, label := range h.Labels() {
		if err := h.DestroyWindow(label); err != nil {
			h.log.Warn("Failed to destroy window on shutdown",
				zap.String("window", label),
				zap.Error(err),
			)
		}
	}
}
