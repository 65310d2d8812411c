// Package selection tracks which scene items are selected in the host
// application and streams snapshots to subscribers. Display handles use
// the stream to toggle guide lines when the selection crosses the
// one-item threshold.
package selection

import "sync"

// Tracker holds the latest selection snapshot and fans updates out to
// subscribers. The zero value is an empty selection, ready to use.
type Tracker struct {
	mu     sync.Mutex
	ids    []string
	nextID int
	subs   map[int]func([]string)
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Set replaces the selection snapshot and notifies subscribers. Setting
// an identical snapshot is a no-op.
func (t *Tracker) Set(ids []string) {
	t.mu.Lock()
	if equal(t.ids, ids) {
		t.mu.Unlock()
		return
	}
	t.ids = append([]string(nil), ids...)
	snapshot := t.ids
	fns := t.subscribersLocked()
	t.mu.Unlock()

	for _, fn := range fns {
		fn(append([]string(nil), snapshot...))
	}
}

// IDs returns a copy of the current selection.
func (t *Tracker) IDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.ids...)
}

// Count returns the number of selected items.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ids)
}

// Subscribe registers fn for snapshot updates and returns a cancel
// function. fn is not called with the current snapshot; read it via IDs
// or Count at subscribe time.
func (t *Tracker) Subscribe(fn func(ids []string)) (cancel func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.subs == nil {
		t.subs = make(map[int]func([]string))
	}
	id := t.nextID
	t.nextID++
	t.subs[id] = fn

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs, id)
	}
}

// subscribersLocked snapshots the subscriber list. Caller must hold the
// lock.
func (t *Tracker) subscribersLocked() []func([]string) {
	fns := make([]func([]string), 0, len(t.subs))
	for _, fn := range t.subs {
		fns = append(fns, fn)
	}
	return fns
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
