package display

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewbridge/viewbridge/internal/engine"
	"github.com/viewbridge/viewbridge/internal/engine/enginetest"
	"github.com/viewbridge/viewbridge/internal/geometry"
	"github.com/viewbridge/viewbridge/internal/selection"
	"github.com/viewbridge/viewbridge/internal/settings"
	"github.com/viewbridge/viewbridge/internal/video"
	"github.com/viewbridge/viewbridge/internal/window"
	"github.com/viewbridge/viewbridge/internal/window/windowtest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fixture struct {
	rec *enginetest.Recorder
	svc *video.Service
	sel *selection.Tracker
	win *windowtest.Window
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := settings.Open(filepath.Join(t.TempDir(), "settings.toml"), testLogger())
	require.NoError(t, err)

	rec := enginetest.NewRecorder()
	f := &fixture{
		rec: rec,
		svc: video.NewService(rec, store, testLogger()),
		sel: selection.NewTracker(),
		win: windowtest.NewWindow("main", 42),
	}
	f.win.SetBounds(geometry.Rect{X: 100, Y: 200, Width: 800, Height: 600})
	return f
}

func (f *fixture) newDisplay(t *testing.T, opts Options) *Display {
	t.Helper()

	d, err := New("preview", f.win, f.svc, f.sel, opts, testLogger())
	require.NoError(t, err)
	t.Cleanup(d.Destroy)
	return d
}

func TestNewCreatesSurface(t *testing.T) {
	f := newFixture(t)
	f.newDisplay(t, Options{
		Mode:         engine.RenderModeStream,
		PaddingColor: engine.RGB(1, 2, 3),
		PaddingSize:  7,
	})

	creates := f.rec.CallsFor("CreateSurface")
	require.Len(t, creates, 1)
	assert.Equal(t, "preview", creates[0].Surface)
	assert.Equal(t, []any{window.NativeHandle(42), engine.RenderModeStream}, creates[0].Args)

	colors := f.rec.CallsFor("SetPaddingColor")
	require.Len(t, colors, 1)
	assert.Equal(t, []any{engine.RGB(1, 2, 3)}, colors[0].Args)

	sizes := f.rec.CallsFor("SetPaddingSize")
	require.Len(t, sizes, 1)
	assert.Equal(t, []any{7}, sizes[0].Args)

	assert.Equal(t, 1, f.rec.CountOf("SetScaleFactor"))
}

func TestNewSourceSurface(t *testing.T) {
	f := newFixture(t)
	f.newDisplay(t, Options{SourceID: "camera-1"})

	require.Equal(t, 0, f.rec.CountOf("CreateSurface"))
	creates := f.rec.CallsFor("CreateSourceSurface")
	require.Len(t, creates, 1)
	assert.Equal(t, []any{window.NativeHandle(42), "camera-1"}, creates[0].Args)
}

func TestNewPropagatesCreateFailure(t *testing.T) {
	f := newFixture(t)
	f.rec.FailWith("CreateSurface", engine.ErrNotConnected)

	_, err := New("preview", f.win, f.svc, f.sel, Options{}, testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrNotConnected)

	var callErr *engine.CallError
	assert.ErrorAs(t, err, &callErr)
}

func TestNonInteractiveDisplay(t *testing.T) {
	f := newFixture(t)

	d, err := New("preview", nil, f.svc, f.sel, Options{}, testLogger())
	require.NoError(t, err)

	assert.False(t, d.Interactive())
	assert.Empty(t, d.WindowID())

	require.NoError(t, d.Move(10, 20))
	require.NoError(t, d.Resize(300, 150))
	require.NoError(t, d.TrackRegion(&Region{}))
	assert.False(t, d.Tracking())

	d.Destroy()
	assert.Empty(t, f.rec.Calls())
}

func TestGuideLinesDisabledForMultiSelection(t *testing.T) {
	f := newFixture(t)
	f.sel.Set([]string{"a", "b"})

	f.newDisplay(t, Options{})

	calls := f.rec.CallsFor("SetDrawGuideLines")
	require.Len(t, calls, 1)
	assert.Equal(t, []any{false}, calls[0].Args)

	// Shrinking to a single item re-enables the guide lines.
	f.sel.Set([]string{"a"})

	calls = f.rec.CallsFor("SetDrawGuideLines")
	require.Len(t, calls, 2)
	assert.Equal(t, []any{true}, calls[1].Args)
}

func TestGuideLinesUnchangedWithinThreshold(t *testing.T) {
	f := newFixture(t)
	f.newDisplay(t, Options{})

	calls := f.rec.CallsFor("SetDrawGuideLines")
	require.Len(t, calls, 1)
	assert.Equal(t, []any{true}, calls[0].Args)

	// Zero and one selected item are on the same side of the threshold.
	f.sel.Set([]string{"a"})
	assert.Equal(t, 1, f.rec.CountOf("SetDrawGuideLines"))

	f.sel.Set([]string{"a", "b", "c"})
	require.Equal(t, 2, f.rec.CountOf("SetDrawGuideLines"))
}

func TestMoveCachesAndForwards(t *testing.T) {
	f := newFixture(t)
	d := f.newDisplay(t, Options{})

	require.NoError(t, d.Move(15, 25))

	moves := f.rec.CallsFor("MoveSurface")
	require.Len(t, moves, 1)
	assert.Equal(t, []any{15, 25}, moves[0].Args)
	assert.Equal(t, geometry.Rect{X: 15, Y: 25}, d.Rect())
}

func TestResizeNotifiesObservers(t *testing.T) {
	f := newFixture(t)
	f.rec.SetPreview(geometry.Point{X: 10, Y: 20}, geometry.Size{Width: 640, Height: 360})
	d := f.newDisplay(t, Options{})

	var mu sync.Mutex
	var first, second []geometry.Rect
	d.OnOutputResize(func(r geometry.Rect) {
		mu.Lock()
		first = append(first, r)
		mu.Unlock()
	})
	d.OnOutputResize(func(r geometry.Rect) {
		mu.Lock()
		second = append(second, r)
		mu.Unlock()
	})

	require.NoError(t, d.Resize(1280, 720))

	want := geometry.Rect{X: 10, Y: 20, Width: 640, Height: 360}
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, want, first[0])
	assert.Equal(t, want, second[0])
	assert.Equal(t, geometry.Rect{Width: 1280, Height: 720}, d.Rect())
}

func TestResizeWithoutObserversSkipsOutputQuery(t *testing.T) {
	f := newFixture(t)
	d := f.newDisplay(t, Options{})

	require.NoError(t, d.Resize(1280, 720))

	assert.Equal(t, 1, f.rec.CountOf("ResizeSurface"))
	assert.Equal(t, 0, f.rec.CountOf("PreviewOffset"))
	assert.Equal(t, 0, f.rec.CountOf("PreviewSize"))
}

func TestCancelledObserverNotNotified(t *testing.T) {
	f := newFixture(t)
	d := f.newDisplay(t, Options{})

	calls := 0
	cancel := d.OnOutputResize(func(geometry.Rect) { calls++ })
	cancel()
	cancel()

	require.NoError(t, d.Resize(1280, 720))
	assert.Zero(t, calls)
}

func TestFocusForwarding(t *testing.T) {
	f := newFixture(t)
	f.newDisplay(t, Options{})

	f.win.Emit(window.Event{Kind: window.EventFocus})
	f.win.Emit(window.Event{Kind: window.EventBlur})
	f.win.Emit(window.Event{Kind: window.EventPointerDown})

	calls := f.rec.CallsFor("SetFocused")
	require.Len(t, calls, 3)
	assert.Equal(t, []any{true}, calls[0].Args)
	assert.Equal(t, []any{false}, calls[1].Args)
	assert.Equal(t, []any{true}, calls[2].Args)
}

func TestWindowCloseClosesDisplay(t *testing.T) {
	f := newFixture(t)
	d := f.newDisplay(t, Options{})

	f.win.Emit(window.Event{Kind: window.EventClose})

	assert.True(t, d.Destroyed())
	assert.Equal(t, 1, f.rec.CountOf("DestroySurface"))
}

func TestCloseIdempotent(t *testing.T) {
	f := newFixture(t)
	d := f.newDisplay(t, Options{})

	d.Close()
	d.Close()
	d.Destroy()
	d.Destroy()

	assert.Equal(t, 1, f.rec.CountOf("DestroySurface"))
	assert.True(t, d.Destroyed())
}

func TestOperationsAfterDestroy(t *testing.T) {
	f := newFixture(t)
	d := f.newDisplay(t, Options{})
	d.Destroy()

	assert.ErrorIs(t, d.Move(1, 2), ErrClosed)
	assert.ErrorIs(t, d.Resize(3, 4), ErrClosed)
	assert.ErrorIs(t, d.TrackRegion(&Region{}), ErrClosed)
}

func TestFocusEventsIgnoredAfterClose(t *testing.T) {
	f := newFixture(t)
	f.newDisplay(t, Options{}).Close()

	before := f.rec.CountOf("SetFocused")
	f.win.Emit(window.Event{Kind: window.EventFocus})
	assert.Equal(t, before, f.rec.CountOf("SetFocused"))
}

func TestDestroyRemovesWindowListeners(t *testing.T) {
	f := newFixture(t)
	d := f.newDisplay(t, Options{})
	require.Equal(t, 1, f.win.SubscriberCount())

	// Close releases the surface but keeps listening to the window.
	d.Close()
	assert.Equal(t, 1, f.win.SubscriberCount())

	d.Destroy()
	assert.Equal(t, 0, f.win.SubscriberCount())
}

func TestMoveDebounce(t *testing.T) {
	f := newFixture(t)
	d := f.newDisplay(t, Options{MoveDebounce: 250 * time.Millisecond})

	var mu sync.Mutex
	var transitions []bool
	d.OnStyleBlock(func(blocked bool) {
		mu.Lock()
		transitions = append(transitions, blocked)
		mu.Unlock()
	})

	// Three moves in quick succession: the block engages once and lifts
	// once, a quiet period after the last move.
	f.win.Emit(window.Event{Kind: window.EventMove})
	assert.True(t, d.StyleBlocked())
	lastMove := time.Now()
	for i := 0; i < 2; i++ {
		time.Sleep(50 * time.Millisecond)
		lastMove = time.Now()
		f.win.Emit(window.Event{Kind: window.EventMove})
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(transitions) == 2
	}, 2*time.Second, 10*time.Millisecond)
	lifted := time.Now()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, transitions)
	assert.False(t, d.StyleBlocked())
	assert.GreaterOrEqual(t, lifted.Sub(lastMove), 250*time.Millisecond)
}
