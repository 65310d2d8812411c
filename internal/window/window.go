// Package window abstracts the host window system. Implementations resolve
// application windows to native handles, report their screen bounds, and
// deliver focus, move, pointer and close events to subscribers.
package window

import (
	"errors"

	"github.com/viewbridge/viewbridge/internal/geometry"
)

// ErrWindowNotFound is returned when a window id cannot be resolved to a
// live window.
var ErrWindowNotFound = errors.New("window not found")

// NativeHandle is the platform-native handle of a window, in the form the
// rendering engine expects (an X11 window id, a HWND, and so on).
type NativeHandle uint64

// ID identifies a window to the window system. Implementations define the
// accepted forms; the X11 backend accepts a numeric window id or a title.
type ID string

// System resolves window ids to live windows.
type System interface {
	// Resolve returns the window identified by id, or ErrWindowNotFound.
	Resolve(id ID) (Window, error)
}

// Window is one host window: a native handle, a screen rectangle, and an
// event stream.
type Window interface {
	// ID returns the id the window was resolved with.
	ID() ID

	// NativeHandle returns the platform handle to embed surfaces into.
	NativeHandle() NativeHandle

	// Bounds returns the window's current screen rectangle in logical
	// pixels.
	Bounds() (geometry.Rect, error)

	// ScaleFactor returns the display scale factor for the window (1.0 on
	// standard-density displays).
	ScaleFactor() float64

	// Subscribe registers fn for the window's events and returns a cancel
	// function. Cancel is safe to call more than once.
	Subscribe(fn func(Event)) (cancel func())
}

// NullSystem is a window system with no windows. It backs headless
// operation: every Resolve fails with ErrWindowNotFound and display
// handles fall back to non-interactive mode.
type NullSystem struct{}

// Resolve always returns ErrWindowNotFound.
func (NullSystem) Resolve(id ID) (Window, error) {
	return nil, ErrWindowNotFound
}
