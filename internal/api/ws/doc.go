// Package ws delivers window events to webview content over WebSocket.
//
// Each window's content opens one connection at /ws/:label as soon as
// its scripts run. The host pushes events down that connection; nothing
// of consequence flows upstream (clients may ping to keep the
// connection warm).
//
// Event Types (Server → Client):
//   - deep-link-received: an activation URL for this window, possibly
//     delivered more than once for the same link
//   - window-focus: the host wants this window raised
//
// A missed event is never fatal: window content can always recover the
// current deep link by polling the HTTP API.
package ws
