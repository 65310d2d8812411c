// Package windowtest provides fake windows and a fake window system for
// tests.
package windowtest

import (
	"sync"

	"github.com/viewbridge/viewbridge/internal/geometry"
	"github.com/viewbridge/viewbridge/internal/window"
)

// Window is a fake window.Window with settable bounds and scale whose
// events are emitted by the test.
type Window struct {
	id     window.ID
	handle window.NativeHandle

	mu        sync.Mutex
	bounds    geometry.Rect
	boundsErr error
	scale     float64

	dispatcher window.Dispatcher
}

var _ window.Window = (*Window)(nil)

// NewWindow creates a fake window with scale factor 1.
func NewWindow(id window.ID, handle window.NativeHandle) *Window {
	return &Window{id: id, handle: handle, scale: 1}
}

func (w *Window) ID() window.ID { return w.id }

func (w *Window) NativeHandle() window.NativeHandle { return w.handle }

func (w *Window) Bounds() (geometry.Rect, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.boundsErr != nil {
		return geometry.Rect{}, w.boundsErr
	}
	return w.bounds, nil
}

func (w *Window) ScaleFactor() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

func (w *Window) Subscribe(fn func(window.Event)) (cancel func()) {
	return w.dispatcher.Subscribe(fn)
}

// SetBounds sets the bounds returned by Bounds.
func (w *Window) SetBounds(r geometry.Rect) {
	w.mu.Lock()
	w.bounds = r
	w.boundsErr = nil
	w.mu.Unlock()
}

// SetBoundsError makes Bounds fail with err until SetBounds is called.
func (w *Window) SetBoundsError(err error) {
	w.mu.Lock()
	w.boundsErr = err
	w.mu.Unlock()
}

// SetScaleFactor sets the scale returned by ScaleFactor.
func (w *Window) SetScaleFactor(scale float64) {
	w.mu.Lock()
	w.scale = scale
	w.mu.Unlock()
}

// Emit dispatches an event to all subscribers.
func (w *Window) Emit(ev window.Event) {
	w.dispatcher.Dispatch(ev)
}

// SubscriberCount returns the number of live event subscriptions.
func (w *Window) SubscriberCount() int {
	return w.dispatcher.SubscriberCount()
}

// System is a fake window.System resolving only registered windows.
type System struct {
	mu      sync.Mutex
	windows map[window.ID]*Window
}

var _ window.System = (*System)(nil)

// NewSystem creates a system containing the given windows.
func NewSystem(windows ...*Window) *System {
	s := &System{windows: make(map[window.ID]*Window)}
	for _, w := range windows {
		s.windows[w.ID()] = w
	}
	return s
}

// Add registers a window.
func (s *System) Add(w *Window) {
	s.mu.Lock()
	s.windows[w.ID()] = w
	s.mu.Unlock()
}

func (s *System) Resolve(id window.ID) (window.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[id]
	if !ok {
		return nil, window.ErrWindowNotFound
	}
	return w, nil
}
