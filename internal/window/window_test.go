package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_FanOut(t *testing.T) {
	var d Dispatcher

	var got1, got2 []EventKind
	d.Subscribe(func(ev Event) { got1 = append(got1, ev.Kind) })
	d.Subscribe(func(ev Event) { got2 = append(got2, ev.Kind) })

	d.Dispatch(Event{Kind: EventFocus})
	d.Dispatch(Event{Kind: EventBlur})

	assert.Equal(t, []EventKind{EventFocus, EventBlur}, got1)
	assert.Equal(t, []EventKind{EventFocus, EventBlur}, got2)
}

func TestDispatcher_Cancel(t *testing.T) {
	var d Dispatcher

	calls := 0
	cancel := d.Subscribe(func(Event) { calls++ })

	d.Dispatch(Event{Kind: EventMove})
	cancel()
	d.Dispatch(Event{Kind: EventMove})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, d.SubscriberCount())

	// Cancel twice is harmless.
	cancel()
}

func TestDispatcher_SubscribeDuringDispatch(t *testing.T) {
	var d Dispatcher

	late := 0
	d.Subscribe(func(Event) {
		d.Subscribe(func(Event) { late++ })
	})

	// Must not deadlock; the late subscriber only sees later events.
	d.Dispatch(Event{Kind: EventFocus})
	assert.Equal(t, 0, late)

	d.Dispatch(Event{Kind: EventFocus})
	assert.Equal(t, 1, late)
}

func TestNullSystem(t *testing.T) {
	_, err := NullSystem{}.Resolve("main")
	require.ErrorIs(t, err, ErrWindowNotFound)
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "focus", EventFocus.String())
	assert.Equal(t, "pointer-down", EventPointerDown.String())
	assert.Equal(t, "unknown", EventKind(99).String())
}
