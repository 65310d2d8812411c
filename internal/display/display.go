// Package display manages on-screen display surfaces: handles that bind
// a region of a host window to a named surface composited by the
// rendering engine. A handle caches its rectangle, forwards moves and
// resizes, tracks a client region by polling, forwards the window's
// focus state, debounces window moves into a style-block toggle, and
// releases its surface exactly once however many times it is closed.
package display

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/viewbridge/viewbridge/internal/engine"
	"github.com/viewbridge/viewbridge/internal/geometry"
	"github.com/viewbridge/viewbridge/internal/selection"
	"github.com/viewbridge/viewbridge/internal/video"
	"github.com/viewbridge/viewbridge/internal/window"
)

var (
	// ErrClosed is returned for operations on a destroyed display.
	ErrClosed = errors.New("display closed")

	// ErrNameInUse is returned when a display name is already taken.
	ErrNameInUse = errors.New("display name in use")

	// ErrNotFound is returned when no display has the given name.
	ErrNotFound = errors.New("display not found")
)

// Defaults for per-display timing when the caller leaves them zero.
const (
	DefaultTrackInterval = 100 * time.Millisecond
	DefaultMoveDebounce  = 500 * time.Millisecond
)

// Default letterbox padding applied to new surfaces.
const DefaultPaddingSize = 10

// DefaultPaddingColor is the dark gray the engine pads previews with.
var DefaultPaddingColor = engine.RGB(0x26, 0x26, 0x26)

// Options configures a new display.
type Options struct {
	// SourceID selects a single-source preview; empty composites the
	// full mix selected by Mode.
	SourceID string

	// Mode selects the mix a full-mix surface composites.
	Mode engine.RenderMode

	// PaddingColor and PaddingSize configure the letterbox around the
	// preview content.
	PaddingColor engine.Color
	PaddingSize  int

	// TrackInterval is the region-tracking poll interval; zero means
	// DefaultTrackInterval.
	TrackInterval time.Duration

	// MoveDebounce is the quiet period after a window move before the
	// style block lifts; zero means DefaultMoveDebounce.
	MoveDebounce time.Duration
}

// Display is a handle on one named engine surface bound to a host
// window. A nil window leaves the handle non-interactive: it exists, is
// listed, and destroys cleanly, but never touches the engine.
type Display struct {
	name     string
	sourceID string
	mode     engine.RenderMode
	win      window.Window
	svc      *video.Service
	logger   *slog.Logger

	interval time.Duration
	deb      *debouncer

	// trackMu serializes tracking start/stop/close so two TrackRegion
	// calls can never leave two loops running. Always acquired before mu.
	trackMu sync.Mutex

	mu          sync.Mutex
	rect        geometry.Rect
	destroyed   bool
	surface     bool
	tracking    bool
	stopCh      chan struct{}
	doneCh      chan struct{}
	lastTracked geometry.Rect
	haveTracked bool
	drawGuides  bool
	styleBlock  bool

	nextObserver int
	outputObs    map[int]func(geometry.Rect)
	styleObs     map[int]func(bool)

	cancelSel func()
	cancelWin func()
	onClose   func()
	createdAt time.Time
}

// New creates a display named name on win. A nil win produces a
// non-interactive handle (window could not be resolved): no surface is
// allocated and every operation is a silent no-op, which is logged once
// here. sel may be nil to skip guide-line tracking.
func New(name string, win window.Window, svc *video.Service, sel *selection.Tracker, opts Options, logger *slog.Logger) (*Display, error) {
	if name == "" {
		return nil, errors.New("display name is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TrackInterval <= 0 {
		opts.TrackInterval = DefaultTrackInterval
	}
	if opts.MoveDebounce <= 0 {
		opts.MoveDebounce = DefaultMoveDebounce
	}
	if opts.PaddingSize <= 0 {
		opts.PaddingSize = DefaultPaddingSize
	}
	if opts.PaddingColor == 0 {
		opts.PaddingColor = DefaultPaddingColor
	}

	d := &Display{
		name:      name,
		sourceID:  opts.SourceID,
		mode:      opts.Mode,
		win:       win,
		svc:       svc,
		logger:    logger.With("display", name),
		interval:  opts.TrackInterval,
		outputObs: make(map[int]func(geometry.Rect)),
		styleObs:  make(map[int]func(bool)),
		createdAt: time.Now(),
	}
	d.deb = newDebouncer(opts.MoveDebounce, d.setStyleBlock)

	if win == nil {
		d.logger.Warn("window not resolved, display is non-interactive")
		return d, nil
	}

	handle := win.NativeHandle()
	var err error
	if opts.SourceID != "" {
		err = svc.CreateSourceSurface(name, handle, opts.SourceID)
	} else {
		err = svc.CreateSurface(name, handle, opts.Mode)
	}
	if err != nil {
		return nil, err
	}
	d.surface = true

	// Cosmetic setup failures are logged, not fatal.
	if err := svc.SetPaddingColor(name, opts.PaddingColor); err != nil {
		d.logger.Warn("failed to set padding color", "error", err)
	}
	if err := svc.SetPaddingSize(name, opts.PaddingSize); err != nil {
		d.logger.Warn("failed to set padding size", "error", err)
	}
	if err := svc.SetScaleFactor(name, win.ScaleFactor()); err != nil {
		d.logger.Warn("failed to set scale factor", "error", err)
	}

	// Guide lines stay on while at most one item is selected elsewhere;
	// multi-selection turns them off until the selection shrinks again.
	if sel != nil {
		d.drawGuides = sel.Count() <= 1
		if err := svc.SetDrawGuideLines(name, d.drawGuides); err != nil {
			d.logger.Warn("failed to set guide lines", "error", err)
		}
		d.cancelSel = sel.Subscribe(d.handleSelection)
	}

	d.cancelWin = win.Subscribe(d.handleWindowEvent)

	d.logger.Debug("display created",
		"source", opts.SourceID,
		"mode", opts.Mode.String())
	return d, nil
}

// Name returns the surface name.
func (d *Display) Name() string { return d.name }

// SourceID returns the previewed source id, empty for full-mix surfaces.
func (d *Display) SourceID() string { return d.sourceID }

// Mode returns the composited mix.
func (d *Display) Mode() engine.RenderMode { return d.mode }

// CreatedAt returns the creation time.
func (d *Display) CreatedAt() time.Time { return d.createdAt }

// Interactive reports whether the handle is bound to a resolved window.
func (d *Display) Interactive() bool { return d.win != nil }

// WindowID returns the owning window's id, empty when non-interactive.
func (d *Display) WindowID() window.ID {
	if d.win == nil {
		return ""
	}
	return d.win.ID()
}

// Rect returns the last position and size applied to the surface.
func (d *Display) Rect() geometry.Rect {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rect
}

// Tracking reports whether a region-tracking loop is running.
func (d *Display) Tracking() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tracking
}

// StyleBlocked reports whether a window move currently blocks styling.
func (d *Display) StyleBlocked() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.styleBlock
}

// Destroyed reports whether the handle has been closed.
func (d *Display) Destroyed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.destroyed
}

// Move caches the surface position and forwards it to the engine.
func (d *Display) Move(x, y int) error {
	d.mu.Lock()
	if d.destroyed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.rect.X, d.rect.Y = x, y
	interactive := d.win != nil
	d.mu.Unlock()

	if !interactive {
		return nil
	}
	return d.svc.MoveSurface(d.name, x, y)
}

// Resize caches the surface size, forwards it to the engine and, when
// output observers are registered, re-queries the engine's output
// region and fans it out.
func (d *Display) Resize(width, height int) error {
	d.mu.Lock()
	if d.destroyed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.rect.Width, d.rect.Height = width, height
	interactive := d.win != nil
	observed := len(d.outputObs) > 0
	d.mu.Unlock()

	if !interactive {
		return nil
	}
	if err := d.svc.ResizeSurface(d.name, width, height); err != nil {
		return err
	}
	if observed {
		d.publishOutputRegion()
	}
	return nil
}

// publishOutputRegion queries the engine's output region and notifies
// observers. Query failures are logged, not propagated: the resize that
// led here already succeeded.
func (d *Display) publishOutputRegion() {
	region, err := d.svc.OutputRegion(d.name)
	if err != nil {
		d.logger.Warn("failed to query output region", "error", err)
		return
	}

	d.mu.Lock()
	obs := make([]func(geometry.Rect), 0, len(d.outputObs))
	for _, fn := range d.outputObs {
		obs = append(obs, fn)
	}
	d.mu.Unlock()

	for _, fn := range obs {
		fn(region)
	}
}

// OnOutputResize registers fn to run with the engine's output region
// after each applied resize. The returned cancel is idempotent.
func (d *Display) OnOutputResize(fn func(geometry.Rect)) (cancel func()) {
	d.mu.Lock()
	id := d.nextObserver
	d.nextObserver++
	d.outputObs[id] = fn
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.outputObs, id)
			d.mu.Unlock()
		})
	}
}

// OnStyleBlock registers fn to run when the style block toggles. The
// returned cancel is idempotent.
func (d *Display) OnStyleBlock(fn func(bool)) (cancel func()) {
	d.mu.Lock()
	id := d.nextObserver
	d.nextObserver++
	d.styleObs[id] = fn
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.styleObs, id)
			d.mu.Unlock()
		})
	}
}

// handleWindowEvent forwards window focus state to the engine, debounces
// moves and closes the display with its window.
func (d *Display) handleWindowEvent(ev window.Event) {
	switch ev.Kind {
	case window.EventFocus, window.EventPointerDown:
		d.forwardFocus(true)
	case window.EventBlur:
		d.forwardFocus(false)
	case window.EventMove:
		d.deb.Trigger()
	case window.EventClose:
		d.Close()
	}
}

func (d *Display) forwardFocus(focused bool) {
	d.mu.Lock()
	if d.destroyed {
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	if err := d.svc.SetFocused(d.name, focused); err != nil {
		d.logger.Warn("failed to forward focus state", "focused", focused, "error", err)
	}
}

// handleSelection applies the guide-line policy on selection snapshots,
// calling the engine only when the desired state actually changes.
func (d *Display) handleSelection(ids []string) {
	want := len(ids) <= 1

	d.mu.Lock()
	if d.destroyed || d.drawGuides == want {
		d.mu.Unlock()
		return
	}
	d.drawGuides = want
	d.mu.Unlock()

	if err := d.svc.SetDrawGuideLines(d.name, want); err != nil {
		d.logger.Warn("failed to toggle guide lines", "draw", want, "error", err)
	}
}

// setStyleBlock records a style-block transition and fans it out.
func (d *Display) setStyleBlock(blocked bool) {
	d.mu.Lock()
	if d.destroyed || d.styleBlock == blocked {
		d.mu.Unlock()
		return
	}
	d.styleBlock = blocked
	obs := make([]func(bool), 0, len(d.styleObs))
	for _, fn := range d.styleObs {
		obs = append(obs, fn)
	}
	d.mu.Unlock()

	d.logger.Debug("style block changed", "blocked", blocked)
	for _, fn := range obs {
		fn(blocked)
	}
}

// Close stops tracking, unsubscribes from selection changes and releases
// the native surface. It is safe to call any number of times; the
// surface is released exactly once. Window-event subscriptions survive
// Close; Destroy removes them too.
func (d *Display) Close() {
	d.trackMu.Lock()
	defer d.trackMu.Unlock()

	d.mu.Lock()
	if d.destroyed {
		d.mu.Unlock()
		return
	}
	d.destroyed = true
	stop, done := d.stopCh, d.doneCh
	d.stopCh, d.doneCh = nil, nil
	d.tracking = false
	cancelSel := d.cancelSel
	d.cancelSel = nil
	release := d.surface
	d.surface = false
	onClose := d.onClose
	d.onClose = nil
	d.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
	if cancelSel != nil {
		cancelSel()
	}
	d.deb.Stop()

	if release {
		if err := d.svc.DestroySurface(d.name); err != nil {
			d.logger.Warn("failed to destroy surface", "error", err)
		}
	}
	if onClose != nil {
		onClose()
	}
	d.logger.Debug("display closed")
}

// Destroy removes the window-event subscriptions and closes the display.
// Like Close it is safe to call any number of times.
func (d *Display) Destroy() {
	d.mu.Lock()
	cancelWin := d.cancelWin
	d.cancelWin = nil
	d.mu.Unlock()

	if cancelWin != nil {
		cancelWin()
	}
	d.Close()
}

// setOnClose installs the hook run once after the surface is released.
func (d *Display) setOnClose(fn func()) {
	d.mu.Lock()
	d.onClose = fn
	d.mu.Unlock()
}
