// Package server wires the viewer host together: configuration,
// logging, metrics, the window host, the deep-link router, the local
// frontend API, and the single-instance activation socket.
package server
