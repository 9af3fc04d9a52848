// Package monitoring provides Prometheus metrics for the viewer host.
//
// Metrics cover the deep-link pipeline end to end:
//   - Activations received, by source (launch, live, second-instance)
//   - Routing decisions, by outcome (focus, primary, new-window, fallback)
//   - Window and session population gauges
//   - Link-event emission failures
//
// The registry is exposed on the local API's /metrics endpoint.
package monitoring
