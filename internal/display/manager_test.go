package display

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewbridge/viewbridge/internal/geometry"
	"github.com/viewbridge/viewbridge/internal/window"
	"github.com/viewbridge/viewbridge/internal/window/windowtest"
)

func newTestManager(t *testing.T) (*Manager, *fixture) {
	t.Helper()

	f := newFixture(t)
	sys := windowtest.NewSystem(f.win)
	m := NewManager(sys, f.svc, f.sel, Options{
		TrackInterval: 10 * time.Millisecond,
		MoveDebounce:  50 * time.Millisecond,
	}, testLogger())
	t.Cleanup(m.CloseAll)
	return m, f
}

func TestManagerCreateAndGet(t *testing.T) {
	m, _ := newTestManager(t)

	d, err := m.Create("preview", "main", Options{})
	require.NoError(t, err)
	assert.True(t, d.Interactive())

	got, err := m.Get("preview")
	require.NoError(t, err)
	assert.Same(t, d, got)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, []string{"preview"}, m.Names())
}

func TestManagerMintsNames(t *testing.T) {
	m, _ := newTestManager(t)

	a, err := m.Create("", "main", Options{})
	require.NoError(t, err)
	b, err := m.Create("", "main", Options{})
	require.NoError(t, err)

	assert.Contains(t, a.Name(), "display-")
	assert.Contains(t, b.Name(), "display-")
	assert.NotEqual(t, a.Name(), b.Name())
	assert.Equal(t, 2, m.Len())
}

func TestManagerDuplicateName(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Create("preview", "main", Options{})
	require.NoError(t, err)

	_, err = m.Create("preview", "main", Options{})
	assert.ErrorIs(t, err, ErrNameInUse)
}

func TestManagerUnresolvableWindow(t *testing.T) {
	m, f := newTestManager(t)

	d, err := m.Create("ghost", "no-such-window", Options{})
	require.NoError(t, err)

	assert.False(t, d.Interactive())
	assert.Equal(t, 1, m.Len())
	assert.Empty(t, f.rec.Calls())
}

func TestManagerDestroyRemoves(t *testing.T) {
	m, f := newTestManager(t)

	_, err := m.Create("preview", "main", Options{})
	require.NoError(t, err)

	require.NoError(t, m.Destroy("preview"))
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 1, f.rec.CountOf("DestroySurface"))

	assert.ErrorIs(t, m.Destroy("preview"), ErrNotFound)
}

func TestManagerWindowCloseRemoves(t *testing.T) {
	m, f := newTestManager(t)

	_, err := m.Create("preview", "main", Options{})
	require.NoError(t, err)

	f.win.Emit(window.Event{Kind: window.EventClose})

	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 1, f.rec.CountOf("DestroySurface"))
}

func TestManagerSetRegionStartsTracking(t *testing.T) {
	m, f := newTestManager(t)

	d, err := m.Create("preview", "main", Options{})
	require.NoError(t, err)

	require.NoError(t, m.SetRegion("preview", geometry.Rect{X: 10, Y: 20, Width: 300, Height: 150}))
	assert.True(t, d.Tracking())

	require.Eventually(t, func() bool {
		return f.rec.CountOf("MoveSurface") == 1
	}, 2*time.Second, 5*time.Millisecond)

	// Later pushes feed the running loop instead of starting another.
	require.NoError(t, m.SetRegion("preview", geometry.Rect{X: 50, Y: 60, Width: 300, Height: 150}))
	require.Eventually(t, func() bool {
		return f.rec.CountOf("MoveSurface") == 2
	}, 2*time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, m.SetRegion("missing", geometry.Rect{}), ErrNotFound)
}

func TestManagerSnapshot(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Create("beta", "main", Options{})
	require.NoError(t, err)
	a, err := m.Create("alpha", "main", Options{SourceID: "camera-1"})
	require.NoError(t, err)
	require.NoError(t, a.Move(10, 20))

	infos := m.Snapshot()
	require.Len(t, infos, 2)

	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, "main", infos[0].WindowID)
	assert.Equal(t, "camera-1", infos[0].SourceID)
	assert.Equal(t, geometry.Rect{X: 10, Y: 20}, infos[0].Rect)
	assert.True(t, infos[0].Interactive)
	assert.False(t, infos[0].Tracking)
	assert.False(t, infos[0].CreatedAt.IsZero())

	assert.Equal(t, "beta", infos[1].Name)
	assert.Equal(t, "main", infos[1].Mode)
}

func TestManagerOnOutput(t *testing.T) {
	m, f := newTestManager(t)
	f.rec.SetPreview(geometry.Point{X: 5, Y: 6}, geometry.Size{Width: 200, Height: 100})

	type event struct {
		name   string
		region geometry.Rect
	}
	var mu sync.Mutex
	var events []event
	cancel := m.OnOutput(func(name string, region geometry.Rect) {
		mu.Lock()
		events = append(events, event{name, region})
		mu.Unlock()
	})
	defer cancel()

	d, err := m.Create("preview", "main", Options{})
	require.NoError(t, err)
	require.NoError(t, d.Resize(1280, 720))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 1)
	assert.Equal(t, "preview", events[0].name)
	assert.Equal(t, geometry.Rect{X: 5, Y: 6, Width: 200, Height: 100}, events[0].region)
}

func TestManagerOnStyleBlock(t *testing.T) {
	m, f := newTestManager(t)

	type event struct {
		name    string
		blocked bool
	}
	var mu sync.Mutex
	var events []event
	m.OnStyleBlock(func(name string, blocked bool) {
		mu.Lock()
		events = append(events, event{name, blocked})
		mu.Unlock()
	})

	_, err := m.Create("preview", "main", Options{})
	require.NoError(t, err)

	f.win.Emit(window.Event{Kind: window.EventMove})

	mu.Lock()
	require.NotEmpty(t, events)
	assert.Equal(t, event{"preview", true}, events[0])
	mu.Unlock()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) == 2 && events[1] == event{"preview", false}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestManagerCloseAll(t *testing.T) {
	m, f := newTestManager(t)

	_, err := m.Create("a", "main", Options{})
	require.NoError(t, err)
	_, err = m.Create("b", "main", Options{})
	require.NoError(t, err)

	m.CloseAll()

	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 2, f.rec.CountOf("DestroySurface"))
}

func TestManagerDefaults(t *testing.T) {
	f := newFixture(t)
	m := NewManager(windowtest.NewSystem(), f.svc, f.sel, Options{}, testLogger())

	defaults := m.Defaults()
	assert.Equal(t, DefaultTrackInterval, defaults.TrackInterval)
	assert.Equal(t, DefaultMoveDebounce, defaults.MoveDebounce)
	assert.Equal(t, DefaultPaddingSize, defaults.PaddingSize)
	assert.Equal(t, DefaultPaddingColor, defaults.PaddingColor)
}
