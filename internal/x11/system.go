// Package x11 implements window.System over an X11 connection using
// xgbutil. Windows are resolved by numeric id or by EWMH title substring
// and watched for structure and focus changes through a shared event
// loop.
package x11

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/viewbridge/viewbridge/internal/window"
)

// Options configures the X11 connection.
type Options struct {
	// Display is the X display to connect to, e.g. ":0". Empty uses
	// $DISPLAY.
	Display string

	// ScaleFactor is the logical scale applied to every window. Core X11
	// has no per-window scale, so one configured factor covers the whole
	// display. Zero means 1.
	ScaleFactor float64
}

// System is an X11-backed window system.
type System struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	scale  float64
	logger *slog.Logger

	mu      sync.Mutex
	windows map[xproto.Window]*Window
}

var _ window.System = (*System)(nil)

// Connect establishes the X11 connection.
func Connect(opts Options, logger *slog.Logger) (*System, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var xu *xgbutil.XUtil
	var err error
	if opts.Display != "" {
		xu, err = xgbutil.NewConnDisplay(opts.Display)
	} else {
		xu, err = xgbutil.NewConn()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}

	scale := opts.ScaleFactor
	if scale <= 0 {
		scale = 1
	}

	return &System{
		xu:      xu,
		root:    xu.RootWin(),
		scale:   scale,
		logger:  logger,
		windows: make(map[xproto.Window]*Window),
	}, nil
}

// Run drives the X event loop until Close is called. It blocks, so the
// daemon runs it in its own goroutine.
func (s *System) Run() {
	xevent.Main(s.xu)
}

// Close stops the event loop and disconnects from the X server.
func (s *System) Close() {
	xevent.Quit(s.xu)
	s.xu.Conn().Close()
}

// Resolve looks a window up by numeric id ("0x3200007" or decimal) or,
// failing that, by EWMH title substring. Resolving the same window twice
// returns the same *Window so subscribers share one event stream.
func (s *System) Resolve(id window.ID) (window.Window, error) {
	xid, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.windows[xid]; ok {
		return w, nil
	}

	w := &Window{sys: s, id: id, xid: xid}
	if err := s.watch(w); err != nil {
		return nil, fmt.Errorf("failed to watch window %s: %w", id, err)
	}
	s.windows[xid] = w
	s.logger.Debug("resolved window", "id", id, "xid", fmt.Sprintf("0x%x", uint32(xid)))
	return w, nil
}

func (s *System) lookup(id window.ID) (xproto.Window, error) {
	trimmed := strings.TrimSpace(string(id))
	if trimmed == "" {
		return 0, fmt.Errorf("empty window id: %w", window.ErrWindowNotFound)
	}

	// Base 0 accepts both decimal and 0x-prefixed ids.
	if xid, err := strconv.ParseUint(trimmed, 0, 32); err == nil {
		win := xproto.Window(xid)
		if _, err := xproto.GetGeometry(s.xu.Conn(), xproto.Drawable(win)).Reply(); err != nil {
			return 0, fmt.Errorf("window 0x%x: %w", xid, window.ErrWindowNotFound)
		}
		return win, nil
	}

	return s.findByTitle(trimmed)
}

// findByTitle searches the EWMH client list for a window whose name
// contains the given substring and returns the first match.
func (s *System) findByTitle(title string) (xproto.Window, error) {
	clients, err := ewmh.ClientListGet(s.xu)
	if err != nil {
		return 0, fmt.Errorf("failed to get client list: %w", err)
	}
	for _, win := range clients {
		name, err := ewmh.WmNameGet(s.xu, win)
		if err != nil {
			continue
		}
		if strings.Contains(name, title) {
			return win, nil
		}
	}
	return 0, fmt.Errorf("no window titled %q: %w", title, window.ErrWindowNotFound)
}

// watch selects events on the window and connects the xevent callbacks
// that feed its dispatcher. ButtonPress is an exclusive selection per
// window and belongs to the owning application, so pointer presses reach
// subscribers only as focus changes.
func (s *System) watch(w *Window) error {
	xw := xwindow.New(s.xu, w.xid)
	if err := xw.Listen(xproto.EventMaskStructureNotify | xproto.EventMaskFocusChange); err != nil {
		return err
	}

	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		// Re-query instead of trusting ev.X/ev.Y: reparenting window
		// managers report frame-relative coordinates there.
		bounds, err := w.Bounds()
		if err != nil {
			s.logger.Warn("failed to query window bounds", "id", w.id, "error", err)
			return
		}
		w.dispatcher.Dispatch(window.Event{Kind: window.EventMove, Bounds: bounds})
	}).Connect(s.xu, w.xid)

	xevent.FocusInFun(func(xu *xgbutil.XUtil, ev xevent.FocusInEvent) {
		w.dispatcher.Dispatch(window.Event{Kind: window.EventFocus})
	}).Connect(s.xu, w.xid)

	xevent.FocusOutFun(func(xu *xgbutil.XUtil, ev xevent.FocusOutEvent) {
		w.dispatcher.Dispatch(window.Event{Kind: window.EventBlur})
	}).Connect(s.xu, w.xid)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		s.forget(w.xid)
		w.dispatcher.Dispatch(window.Event{Kind: window.EventClose})
	}).Connect(s.xu, w.xid)

	return nil
}

func (s *System) forget(xid xproto.Window) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, xid)
	xevent.Detach(s.xu, xid)
}
