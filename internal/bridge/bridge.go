// Package bridge speaks to the rendering engine's D-Bus control service
// and exposes it as an engine.Compositor. Every call is a synchronous
// method call on the engine object; failures come back as
// *engine.CallError carrying the operation and surface name.
package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/viewbridge/viewbridge/internal/engine"
	"github.com/viewbridge/viewbridge/internal/geometry"
	"github.com/viewbridge/viewbridge/internal/window"
)

// Options locates the engine on the bus.
type Options struct {
	Bus        string // "session" or "system"
	Service    string // Well-known name, e.g. org.viewbridge.Engine1
	ObjectPath string // e.g. /org/viewbridge/Engine1

	// VerifyTimeout bounds the startup Version probe; zero skips the
	// probe entirely.
	VerifyTimeout time.Duration
}

// Compositor is the D-Bus client side of the engine's surface API.
type Compositor struct {
	conn   *dbus.Conn
	obj    dbus.BusObject
	iface  string
	logger *slog.Logger
}

var _ engine.Compositor = (*Compositor)(nil)

// Connect connects to the configured bus and binds the engine object.
// With a VerifyTimeout set it probes the engine's Version method so a
// missing engine fails at startup instead of on the first surface call.
func Connect(opts Options, logger *slog.Logger) (*Compositor, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var conn *dbus.Conn
	var err error
	switch opts.Bus {
	case "system":
		conn, err = dbus.SystemBus()
	default:
		conn, err = dbus.SessionBus()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s bus: %w", opts.Bus, err)
	}

	c := &Compositor{
		conn:   conn,
		obj:    conn.Object(opts.Service, dbus.ObjectPath(opts.ObjectPath)),
		iface:  opts.Service,
		logger: logger,
	}

	if opts.VerifyTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), opts.VerifyTimeout)
		defer cancel()

		version, err := c.VersionContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("engine not reachable at %s: %w", opts.Service, err)
		}
		logger.Info("connected to engine", "service", opts.Service, "version", version)
	}

	return c, nil
}

// Version returns the engine's reported version string.
func (c *Compositor) Version() (string, error) {
	return c.VersionContext(context.Background())
}

// VersionContext is Version with a caller-supplied context.
func (c *Compositor) VersionContext(ctx context.Context) (string, error) {
	var version string
	call := c.obj.CallWithContext(ctx, c.iface+".Version", 0)
	if call.Err != nil {
		return "", engine.NewCallError("Version", "", call.Err)
	}
	if err := call.Store(&version); err != nil {
		return "", engine.NewCallError("Version", "", err)
	}
	return version, nil
}

// call issues one engine method call and wraps any failure.
func (c *Compositor) call(op, surface string, args ...any) error {
	return engine.NewCallError(op, surface, c.obj.Call(c.iface+"."+op, 0, args...).Err)
}

func (c *Compositor) CreateSurface(name string, handle window.NativeHandle, mode engine.RenderMode) error {
	return c.call("CreateSurface", name, name, uint64(handle), mode.String())
}

func (c *Compositor) CreateSourceSurface(name string, handle window.NativeHandle, sourceID string) error {
	return c.call("CreateSourceSurface", name, name, uint64(handle), sourceID)
}

func (c *Compositor) DestroySurface(name string) error {
	return c.call("DestroySurface", name, name)
}

func (c *Compositor) MoveSurface(name string, x, y int) error {
	return c.call("MoveSurface", name, name, int32(x), int32(y))
}

func (c *Compositor) ResizeSurface(name string, width, height int) error {
	return c.call("ResizeSurface", name, name, int32(width), int32(height))
}

func (c *Compositor) SetPaddingColor(name string, color engine.Color) error {
	return c.call("SetPaddingColor", name, name, uint32(color))
}

func (c *Compositor) SetPaddingSize(name string, px int) error {
	return c.call("SetPaddingSize", name, name, int32(px))
}

func (c *Compositor) SetDrawGuideLines(name string, draw bool) error {
	return c.call("SetDrawGuideLines", name, name, draw)
}

func (c *Compositor) SetFocused(name string, focused bool) error {
	return c.call("SetFocused", name, name, focused)
}

func (c *Compositor) SetScaleFactor(name string, scale float64) error {
	return c.call("SetScaleFactor", name, name, scale)
}

func (c *Compositor) SetDrawUI(name string, draw bool) error {
	return c.call("SetDrawUI", name, name, draw)
}

func (c *Compositor) PreviewOffset(name string) (geometry.Point, error) {
	var x, y int32
	call := c.obj.Call(c.iface+".PreviewOffset", 0, name)
	if call.Err != nil {
		return geometry.Point{}, engine.NewCallError("PreviewOffset", name, call.Err)
	}
	if err := call.Store(&x, &y); err != nil {
		return geometry.Point{}, engine.NewCallError("PreviewOffset", name, err)
	}
	return geometry.Point{X: int(x), Y: int(y)}, nil
}

func (c *Compositor) PreviewSize(name string) (geometry.Size, error) {
	var w, h int32
	call := c.obj.Call(c.iface+".PreviewSize", 0, name)
	if call.Err != nil {
		return geometry.Size{}, engine.NewCallError("PreviewSize", name, call.Err)
	}
	if err := call.Store(&w, &h); err != nil {
		return geometry.Size{}, engine.NewCallError("PreviewSize", name, err)
	}
	return geometry.Size{Width: int(w), Height: int(h)}, nil
}
