// Package http exposes the frontend-callable operations of the viewer
// host over the local API.
//
// Window content calls these endpoints to bridge the gap between
// activation and readiness:
//   - GET    /api/windows/:label/deeplink   poll the pending link
//   - DELETE /api/windows/:label/deeplink   consume it after applying
//   - POST   /api/windows/:label/session    register the connected session
//   - DELETE /api/windows/:label/session    unregister on disconnect
//   - DELETE /api/windows/:label            close the window
//   - GET    /api/state                     routing bookkeeping counts
//
// Polling is deliberately decoupled from the websocket event channel:
// a missed deep-link event is always recoverable by a poll on
// window-ready.
package http
