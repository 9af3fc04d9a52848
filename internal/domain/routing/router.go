package routing

import (
	"time"

	"github.com/LanternOps/breeze-viewer/internal/domain/deeplink"
	"github.com/LanternOps/breeze-viewer/internal/infrastructure/logging"
	"github.com/LanternOps/breeze-viewer/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// Host is the window subsystem as the router sees it. The router owns
// labels and URLs only; windows themselves belong to the host.
type Host interface {
	// CreateWindow opens a new window under the given label.
	CreateWindow(label string) error
	// FocusWindow raises the window with the given label.
	FocusWindow(label string) error
	// EmitLink delivers a link event to the window's content. Consumers
	// must tolerate receiving the same URL more than once.
	EmitLink(label, url string) error
	// HasWindow reports whether a window with the label currently exists.
	HasWindow(label string) bool
}

// Router routes incoming deep links to windows and keeps the
// label-keyed bookkeeping consistent as windows come and go.
type Router struct {
	host    Host
	log     *logging.Logger
	metrics *monitoring.Metrics
	retrier *Retrier

	pending  *pendingLinks
	sessions *sessionOwners
	labels   *labelCounter
}

// Stats is a point-in-time view of the router's bookkeeping.
type Stats struct {
	PendingLinks   int `json:"pending_links"`
	ActiveSessions int `json:"active_sessions"`
}

// NewRouter creates a router bound to the given window host.
func NewRouter(host Host, log *logging.Logger) *Router {
	r := &Router{
		host:     host,
		log:      log,
		pending:  newPendingLinks(log),
		sessions: newSessionOwners(log),
		labels:   &labelCounter{},
	}
	r.retrier = NewRetrier(r.reemit)
	return r
}

// WithMetrics adds metrics tracking to the router.
func (r *Router) WithMetrics(metrics *monitoring.Metrics) *Router {
	r.metrics = metrics
	return r
}

// WithRetryDelays overrides the redundant re-emission delays. Tests
// use sub-millisecond values.
func (r *Router) WithRetryDelays(delays ...time.Duration) *Router {
	r.retrier = NewRetrier(r.reemit, delays...)
	return r
}

// Route delivers an incoming activation URL to the right window:
// focus the window already showing the session, hand the link to the
// idle primary window, or open a new window when the primary is busy.
func (r *Router) Route(url string) {
	sessionID, miss := deeplink.ParseSessionID(url)
	if miss != deeplink.MissNone {
		r.log.Warn("Deep link without usable session id",
			zap.String("reason", string(miss)),
			zap.String("url", url),
		)
		if r.metrics != nil {
			r.metrics.ParseMisses.WithLabelValues(string(miss)).Inc()
		}
	} else if label, ok := r.sessions.Owner(sessionID); ok {
		// Session already on screen; focusing is the only effect.
		r.focusExisting(label, sessionID)
		return
	}

	if !r.sessions.Owns(PrimaryLabel) {
		r.countRoute("primary")
		r.deliverToPrimary(url)
		return
	}
	r.createSessionWindow(url)
}

// HandleLaunch seeds the primary window's pending link from an
// activation URL present at process start. The frontend is not up yet,
// so there is no immediate emission or focus; the stored link and the
// delayed re-emissions bridge the gap.
func (r *Router) HandleLaunch(url string) {
	r.log.Info("Deep link present at launch", zap.String("url", url))
	r.pending.Set(PrimaryLabel, url)
	r.syncGauges()
	r.retrier.Schedule(PrimaryLabel, url)
}

// GetPendingLink returns the stored link for a window without
// consuming it. Two consecutive calls return the same value.
func (r *Router) GetPendingLink(label string) (string, bool) {
	return r.pending.Get(label)
}

// ClearPendingLink removes the stored link once the frontend has
// applied it.
func (r *Router) ClearPendingLink(label string) {
	r.pending.Clear(label)
	r.syncGauges()
}

// RegisterSession is called by window content once its remote session
// is connected. A duplicate identifier overwrites the previous owner.
func (r *Router) RegisterSession(label, sessionID string) {
	r.sessions.Register(sessionID, label)
	r.syncGauges()
	r.log.Info("Session registered",
		zap.String("window", label),
		zap.String("session_id", sessionID),
	)
}

// UnregisterSession is called by window content on disconnect. Every
// session owned by the label is removed.
func (r *Router) UnregisterSession(label string) {
	removed := r.sessions.UnregisterLabel(label)
	r.syncGauges()
	r.log.Info("Session unregistered",
		zap.String("window", label),
		zap.Int("removed", removed),
	)
}

// WindowDestroyed prunes all bookkeeping for a destroyed window. It
// must run for every window, the primary included, or the maps drift
// from actual window existence.
func (r *Router) WindowDestroyed(label string) {
	removed := r.sessions.UnregisterLabel(label)
	r.pending.Clear(label)
	r.syncGauges()
	r.log.Info("Window state pruned",
		zap.String("window", label),
		zap.Int("sessions_removed", removed),
	)
}

// Stats returns current bookkeeping counts.
func (r *Router) Stats() Stats {
	return Stats{
		PendingLinks:   r.pending.Len(),
		ActiveSessions: r.sessions.Len(),
	}
}

// Retrier exposes the delayed-emission scheduler, so shutdown can
// flush in-flight deliveries.
func (r *Router) Retrier() *Retrier {
	return r.retrier
}

// focusExisting handles a link for a session that is already shown
// somewhere. The window may have vanished between lookup and use; that
// is a benign race, logged and swallowed.
func (r *Router) focusExisting(label, sessionID string) {
	r.countRoute("focus_existing")
	if !r.host.HasWindow(label) {
		r.log.Warn("Session owner window no longer exists",
			zap.String("window", label),
			zap.String("session_id", sessionID),
		)
		return
	}
	if err := r.host.FocusWindow(label); err != nil {
		r.log.Warn("Failed to focus existing session window",
			zap.String("window", label),
			zap.Error(err),
		)
		if r.metrics != nil {
			r.metrics.FocusFailures.Inc()
		}
	}
}

// deliverToPrimary stores the link for the primary window, emits the
// link event, focuses the window, and schedules the redundant delayed
// emissions.
func (r *Router) deliverToPrimary(url string) {
	r.pending.Set(PrimaryLabel, url)
	r.syncGauges()

	if err := r.host.EmitLink(PrimaryLabel, url); err != nil {
		r.log.Warn("Failed to emit link event to primary window", zap.Error(err))
		if r.metrics != nil {
			r.metrics.EmitFailures.Inc()
		}
	}
	if err := r.host.FocusWindow(PrimaryLabel); err != nil {
		r.log.Warn("Failed to focus primary window", zap.Error(err))
		if r.metrics != nil {
			r.metrics.FocusFailures.Inc()
		}
	}
	r.retrier.Schedule(PrimaryLabel, url)
}

// createSessionWindow opens a new window for a link the primary cannot
// take. The pending link is stored before creation is attempted so a
// poll racing the new window's startup already sees it.
func (r *Router) createSessionWindow(url string) {
	label := r.labels.Next()
	r.pending.Set(label, url)
	r.syncGauges()

	if err := r.host.CreateWindow(label); err != nil {
		r.log.Error("Failed to create session window",
			zap.String("window", label),
			zap.Error(err),
		)
		if r.metrics != nil {
			r.metrics.CreateFailures.Inc()
		}
		r.pending.Clear(label)
		// Creation failure outranks duplicate-session caution: the
		// link lands on the primary window even while it is busy.
		r.countRoute("fallback_primary")
		r.deliverToPrimary(url)
		return
	}

	r.countRoute("new_window")
	if r.metrics != nil {
		r.metrics.WindowsCreated.Inc()
	}
	r.log.Info("Session window created",
		zap.String("window", label),
		zap.String("url", url),
	)
	r.retrier.Schedule(label, url)
}

// reemit is the retrier callback: one delayed redundant delivery.
func (r *Router) reemit(label, url string) {
	if r.metrics != nil {
		r.metrics.RetriesEmitted.Inc()
	}
	if err := r.host.EmitLink(label, url); err != nil {
		r.log.Debug("Delayed link emission failed",
			zap.String("window", label),
			zap.Error(err),
		)
		if r.metrics != nil {
			r.metrics.EmitFailures.Inc()
		}
	}
}

func (r *Router) countRoute(outcome string) {
	if r.metrics != nil {
		r.metrics.RoutesTotal.WithLabelValues(outcome).Inc()
	}
}

func (r *Router) syncGauges() {
	if r.metrics == nil {
		return
	}
	r.metrics.PendingLinks.Set(float64(r.pending.Len()))
	r.metrics.SessionsActive.Set(float64(r.sessions.Len()))
}
