package window

import "errors"

// Handle is an opaque reference to an on-screen window. It is only valid
// for the duration of the capture call that located it.
type Handle uintptr

// ErrNotFound means no visible window title contained the requested
// fragment. Callers are expected to fall back to a full-screen capture.
var ErrNotFound = errors.New("no window matches title")

// Locator resolves a title fragment to a live window.
type Locator interface {
	// Find matches the fragment case-insensitively as a substring of each
	// visible top-level window title and returns the first hit along with
	// its full title. Enumeration order is the platform z-order, topmost
	// first, so the selection is deterministic.
	Find(titleFragment string) (Handle, string, error)
}
