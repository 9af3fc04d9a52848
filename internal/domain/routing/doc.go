// Package routing implements the deep-link session router.
//
// The router owns three small stores keyed by window label: pending
// links awaiting consumption by window content, session ownership
// (which window is showing which remote session), and the monotonic
// label counter for new session windows. Given an activation URL it
// decides between focusing an existing window, delivering to the idle
// primary window, and creating a new window.
//
// Key Components:
//   - Router: the decision procedure and frontend-facing operations
//   - Retrier: fixed delayed re-emission of link events to absorb the
//     race between window creation and webview readiness
//   - Host: the window subsystem as the router sees it (interface)
//
// Concurrency: each store is an independent mutex region. Operations
// acquire one region at a time and never call back into another store
// while holding a lock; routing decisions are check-then-act across
// regions and intentionally not atomic between them.
//
// Example Usage:
//
//	router := routing.NewRouter(host, logger).WithMetrics(metrics)
//	router.Route("breeze://connect?session=abc")
package routing
