package display

import (
	"errors"
	"sync"
	"time"

	"github.com/viewbridge/viewbridge/internal/geometry"
)

// ErrRegionUnset is returned by a Region that has not been fed a
// rectangle yet. The tracking loop skips such ticks quietly.
var ErrRegionUnset = errors.New("region not set")

// RegionSource reports the client-space rectangle of the tracked region
// within its window, in logical pixels.
type RegionSource interface {
	ClientRect() (geometry.Rect, error)
}

// RegionFunc adapts a function to a RegionSource.
type RegionFunc func() (geometry.Rect, error)

func (f RegionFunc) ClientRect() (geometry.Rect, error) { return f() }

// Region is a mutable RegionSource fed by pushed client rectangles,
// typically from the host application over the control surface.
type Region struct {
	mu   sync.Mutex
	rect geometry.Rect
	set  bool
}

// Update replaces the region's client rectangle.
func (r *Region) Update(rect geometry.Rect) {
	r.mu.Lock()
	r.rect = rect
	r.set = true
	r.mu.Unlock()
}

// ClientRect returns the last pushed rectangle, or ErrRegionUnset before
// the first Update.
func (r *Region) ClientRect() (geometry.Rect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.set {
		return geometry.Rect{}, ErrRegionUnset
	}
	return r.rect, nil
}

// TrackRegion starts a polling loop that keeps the surface aligned with
// src: each tick recomputes the region's screen-space rectangle from the
// window bounds, the client rectangle and the display scale, and issues
// a move/resize pair only when the result differs from the last applied
// one. At most one loop runs per display; a second call stops the first
// loop before starting over. Non-interactive handles ignore the call.
func (d *Display) TrackRegion(src RegionSource) error {
	if src == nil {
		return errors.New("nil region source")
	}

	d.trackMu.Lock()
	defer d.trackMu.Unlock()

	d.mu.Lock()
	if d.destroyed {
		d.mu.Unlock()
		return ErrClosed
	}
	if d.win == nil {
		d.mu.Unlock()
		return nil
	}
	stop, done := d.stopCh, d.doneCh
	d.stopCh, d.doneCh = nil, nil
	d.tracking = false
	d.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}

	d.mu.Lock()
	if d.destroyed {
		d.mu.Unlock()
		return ErrClosed
	}
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	d.stopCh, d.doneCh = stopCh, doneCh
	d.tracking = true
	d.haveTracked = false
	d.mu.Unlock()

	go d.track(src, stopCh, doneCh)

	d.logger.Debug("region tracking started", "interval", d.interval)
	return nil
}

// StopTracking stops the polling loop if one is running.
func (d *Display) StopTracking() {
	d.trackMu.Lock()
	defer d.trackMu.Unlock()

	d.mu.Lock()
	stop, done := d.stopCh, d.doneCh
	d.stopCh, d.doneCh = nil, nil
	d.tracking = false
	d.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
}

func (d *Display) track(src RegionSource, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.sample(src)
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			d.sample(src)
		}
	}
}

// sample recomputes the screen-space rectangle and applies it if it
// changed. Failures are logged and the loop keeps running.
func (d *Display) sample(src RegionSource) {
	bounds, err := d.win.Bounds()
	if err != nil {
		d.logger.Warn("tracking: window bounds unavailable", "error", err)
		return
	}
	client, err := src.ClientRect()
	if err != nil {
		if !errors.Is(err, ErrRegionUnset) {
			d.logger.Warn("tracking: client rect unavailable", "error", err)
		}
		return
	}

	next := geometry.ScreenRect(bounds, client, d.win.ScaleFactor())

	d.mu.Lock()
	if d.destroyed {
		d.mu.Unlock()
		return
	}
	if d.haveTracked && next == d.lastTracked {
		d.mu.Unlock()
		return
	}
	d.lastTracked = next
	d.haveTracked = true
	d.rect = next
	observed := len(d.outputObs) > 0
	d.mu.Unlock()

	if err := d.svc.MoveSurface(d.name, next.X, next.Y); err != nil {
		d.logger.Warn("tracking: move failed", "error", err)
	}
	if err := d.svc.ResizeSurface(d.name, next.Width, next.Height); err != nil {
		d.logger.Warn("tracking: resize failed", "error", err)
	}
	if observed {
		d.publishOutputRegion()
	}
}
