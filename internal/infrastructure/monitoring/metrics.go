package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the viewer host.
type Metrics struct {
	registry *prometheus.Registry

	// Activation metrics
	ActivationsTotal *prometheus.CounterVec

	// Routing metrics
	RoutesTotal    *prometheus.CounterVec
	ParseMisses    *prometheus.CounterVec
	WindowsCreated prometheus.Counter
	CreateFailures prometheus.Counter
	EmitFailures   prometheus.Counter
	FocusFailures  prometheus.Counter
	RetriesEmitted prometheus.Counter

	// Population gauges
	WindowsOpen    prometheus.Gauge
	SessionsActive prometheus.Gauge
	PendingLinks   prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a metrics collector on its own registry, so a
// process (or test) can hold several without collisions.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry:  registry,
		startTime: time.Now(),

		ActivationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "viewer_activations_total",
				Help: "Total deep-link activations received",
			},
			[]string{"source"},
		),
		RoutesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "viewer_routes_total",
				Help: "Routing decisions by outcome",
			},
			[]string{"outcome"},
		),
		ParseMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "viewer_link_parse_misses_total",
				Help: "Activation URLs without a usable session parameter",
			},
			[]string{"reason"},
		),
		WindowsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "viewer_windows_created_total",
				Help: "Session windows created for deep links",
			},
		),
		CreateFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "viewer_window_create_failures_total",
				Help: "Session window creation failures",
			},
		),
		EmitFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "viewer_link_emit_failures_total",
				Help: "Failed link-event emissions to windows",
			},
		),
		FocusFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "viewer_window_focus_failures_total",
				Help: "Failed focus requests on windows",
			},
		),
		RetriesEmitted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "viewer_link_retries_emitted_total",
				Help: "Redundant delayed link-event emissions",
			},
		),
		WindowsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "viewer_windows_open",
				Help: "Currently open windows",
			},
		),
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "viewer_sessions_active",
				Help: "Remote sessions currently bound to a window",
			},
		),
		PendingLinks: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "viewer_pending_links",
				Help: "Stored deep links not yet consumed by a window",
			},
		),
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "viewer_ws_connections",
				Help: "Window content websocket connections",
			},
		),
		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "viewer_uptime_seconds",
				Help: "Host uptime in seconds",
			},
		),
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// UpdateUptime refreshes the uptime gauge.
func (m *Metrics) UpdateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}
