// Package singleinstance coordinates deep-link hand-off between
// process instances over a local socket.
//
// The first viewer process listens on a per-user socket. When the OS
// launches a second instance for a deep link, that instance dials the
// socket, forwards its argument list as one JSON message, and exits;
// the primary scans the forwarded arguments for the URI scheme and
// routes the link. This is the live activation source on platforms
// where protocol handlers spawn a fresh process per link.
package singleinstance
