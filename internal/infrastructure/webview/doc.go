// Package webview manages the window processes of the viewer host.
//
// Each window is a webview shell child process spawned with a label
// and the local content URL; the shell's exit is the window-destroyed
// signal. With no shell command configured the host runs headless:
// windows are logical records and content attaches over the websocket
// channel, which is how tests and development builds run.
//
// Focus requests and link events reach window content through the ws
// hub; the router never talks to a window directly.
package webview
