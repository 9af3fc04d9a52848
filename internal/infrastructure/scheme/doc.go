// Package scheme keeps the OS URI-scheme registration pointing at the
// current install.
//
// On macOS, Launch Services can keep resolving the scheme to a stale
// DMG mount path after the app moves; re-registering the enclosing
// bundle at startup fixes that. Other platforms register the scheme at
// install time and need nothing here.
package scheme
