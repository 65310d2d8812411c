package window

import (
	"sync"

	"github.com/viewbridge/viewbridge/internal/geometry"
)

// EventKind classifies window events.
type EventKind int

const (
	// EventFocus fires when the window gains input focus.
	EventFocus EventKind = iota
	// EventBlur fires when the window loses input focus.
	EventBlur
	// EventMove fires when the window is moved or resized.
	EventMove
	// EventPointerDown fires on a pointer press inside the window.
	EventPointerDown
	// EventClose fires when the window is destroyed or asked to close.
	EventClose
)

// eventKindNames maps event kinds to log-friendly names.
var eventKindNames = map[EventKind]string{
	EventFocus:       "focus",
	EventBlur:        "blur",
	EventMove:        "move",
	EventPointerDown: "pointer-down",
	EventClose:       "close",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is one window event. Bounds carries the new window rectangle for
// EventMove and is zero otherwise.
type Event struct {
	Kind   EventKind
	Bounds geometry.Rect
}

// Dispatcher fans window events out to subscribers. Implementations of
// Window embed one and feed it from their platform event loop. The zero
// value is ready to use.
type Dispatcher struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

// Subscribe registers fn and returns a cancel function. Cancel is
// idempotent.
func (d *Dispatcher) Subscribe(fn func(Event)) (cancel func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.subs == nil {
		d.subs = make(map[int]func(Event))
	}
	id := d.nextID
	d.nextID++
	d.subs[id] = fn

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.subs, id)
	}
}

// Dispatch delivers ev to every current subscriber. Subscribers are
// invoked outside the lock so they may cancel themselves or subscribe
// others.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.Lock()
	fns := make([]func(Event), 0, len(d.subs))
	for _, fn := range d.subs {
		fns = append(fns, fn)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// SubscriberCount returns the number of active subscriptions.
func (d *Dispatcher) SubscriberCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs)
}
