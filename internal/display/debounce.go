package display

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of window-move events. The first trigger
// fires onChange(true) immediately; onChange(false) fires once no
// further trigger has arrived for delay. Another trigger inside the
// quiet period extends it rather than firing again.
type debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	onChange func(bool)
	timer    *time.Timer
	active   bool
	gen      uint64
}

func newDebouncer(delay time.Duration, onChange func(bool)) *debouncer {
	return &debouncer{delay: delay, onChange: onChange}
}

// Trigger notes one event, starting or extending the quiet period.
func (b *debouncer) Trigger() {
	b.mu.Lock()
	first := !b.active
	b.active = true
	b.gen++
	gen := b.gen
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.delay, func() { b.expire(gen) })
	b.mu.Unlock()

	if first {
		b.onChange(true)
	}
}

// expire ends the quiet period. The generation check discards a timer
// that fired concurrently with a Trigger that superseded it.
func (b *debouncer) expire(gen uint64) {
	b.mu.Lock()
	if !b.active || gen != b.gen {
		b.mu.Unlock()
		return
	}
	b.active = false
	b.timer = nil
	b.mu.Unlock()

	b.onChange(false)
}

// Stop cancels any pending callback without firing it.
func (b *debouncer) Stop() {
	b.mu.Lock()
	b.gen++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.active = false
	b.mu.Unlock()
}
