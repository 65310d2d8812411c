package x11

import (
	"math"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/viewbridge/viewbridge/internal/geometry"
	"github.com/viewbridge/viewbridge/internal/window"
)

// Window is one X11 window tracked by the System.
type Window struct {
	sys *System
	id  window.ID
	xid xproto.Window

	dispatcher window.Dispatcher
}

var _ window.Window = (*Window)(nil)

func (w *Window) ID() window.ID {
	return w.id
}

func (w *Window) NativeHandle() window.NativeHandle {
	return window.NativeHandle(w.xid)
}

// Bounds returns the window's root-relative rectangle in logical pixels.
// X11 coordinates are physical, so the configured scale factor divides
// them back to the logical space the rest of the daemon works in.
func (w *Window) Bounds() (geometry.Rect, error) {
	conn := w.sys.xu.Conn()

	geom, err := xproto.GetGeometry(conn, xproto.Drawable(w.xid)).Reply()
	if err != nil {
		return geometry.Rect{}, err
	}

	// GetGeometry positions are parent-relative; translate the origin to
	// root coordinates so reparenting window managers don't skew them.
	trans, err := xproto.TranslateCoordinates(conn, w.xid, w.sys.root, 0, 0).Reply()
	if err != nil {
		return geometry.Rect{}, err
	}

	rect := geometry.Rect{
		X:      int(trans.DstX),
		Y:      int(trans.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}
	return unscale(rect, w.sys.scale), nil
}

func (w *Window) ScaleFactor() float64 {
	return w.sys.scale
}

func (w *Window) Subscribe(fn func(window.Event)) (cancel func()) {
	return w.dispatcher.Subscribe(fn)
}

func unscale(r geometry.Rect, scale float64) geometry.Rect {
	if scale == 1 {
		return r
	}
	return geometry.Rect{
		X:      int(math.Round(float64(r.X) / scale)),
		Y:      int(math.Round(float64(r.Y) / scale)),
		Width:  int(math.Round(float64(r.Width) / scale)),
		Height: int(math.Round(float64(r.Height) / scale)),
	}
}
