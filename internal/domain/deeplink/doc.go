// Package deeplink extracts session identifiers from activation URLs.
//
// The parser is deliberately minimal: it scans the raw query string for
// a session parameter without URL-decoding anything. Inputs come only
// from the OS protocol handler and the application's own link format,
// so a general URI library buys nothing here.
//
// FromArgs covers the argv form of activation (Windows protocol
// handlers and single-instance hand-off pass the URL as a plain
// command-line argument).
package deeplink
