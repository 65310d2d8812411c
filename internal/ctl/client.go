package ctl

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/viewbridge/viewbridge/internal/display"
	"github.com/viewbridge/viewbridge/internal/geometry"
	"github.com/viewbridge/viewbridge/internal/video"
)

// Client calls the daemon's control interface from the CLI and TUI.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// Dial connects to the bus and binds the control object. It does not
// verify the daemon is running; the first call does.
func Dial(bus, service string) (*Client, error) {
	if service == "" {
		service = DefaultService
	}

	var conn *dbus.Conn
	var err error
	switch bus {
	case "system":
		conn, err = dbus.SystemBus()
	default:
		conn, err = dbus.SessionBus()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s bus: %w", bus, err)
	}

	return &Client{
		conn: conn,
		obj:  conn.Object(service, Path),
	}, nil
}

func (c *Client) call(method string, args ...any) *dbus.Call {
	return c.obj.Call(Interface+"."+method, 0, args...)
}

// CreateDisplay creates a display on the named window and returns the
// daemon's (possibly minted) display name.
func (c *Client) CreateDisplay(name, windowID string, opts CreateOptions) (string, error) {
	call := c.call("CreateDisplay", name, windowID, opts.variants())
	if call.Err != nil {
		return "", call.Err
	}
	var created string
	if err := call.Store(&created); err != nil {
		return "", err
	}
	return created, nil
}

// DestroyDisplay destroys a display by name.
func (c *Client) DestroyDisplay(name string) error {
	return c.call("DestroyDisplay", name).Err
}

// MoveDisplay positions a display surface.
func (c *Client) MoveDisplay(name string, x, y int) error {
	return c.call("MoveDisplay", name, int32(x), int32(y)).Err
}

// ResizeDisplay resizes a display surface.
func (c *Client) ResizeDisplay(name string, width, height int) error {
	return c.call("ResizeDisplay", name, int32(width), int32(height)).Err
}

// SetRegion pushes a display's tracked client rectangle.
func (c *Client) SetRegion(name string, rect geometry.Rect) error {
	return c.call("SetRegion", name,
		int32(rect.X), int32(rect.Y), int32(rect.Width), int32(rect.Height)).Err
}

// SetSelection replaces the daemon's selection snapshot.
func (c *Client) SetSelection(ids []string) error {
	return c.call("SetSelection", ids).Err
}

// BaseResolution returns the daemon's base resolution.
func (c *Client) BaseResolution() (video.Resolution, error) {
	call := c.call("BaseResolution")
	if call.Err != nil {
		return video.Resolution{}, call.Err
	}
	var raw string
	if err := call.Store(&raw); err != nil {
		return video.Resolution{}, err
	}
	return video.ParseResolution(raw)
}

// SetBaseResolution sets and persists the daemon's base resolution.
func (c *Client) SetBaseResolution(res video.Resolution) error {
	return c.call("SetBaseResolution", res.String()).Err
}

// ListDisplays returns all live displays, sorted by name.
func (c *Client) ListDisplays() ([]display.Info, error) {
	call := c.call("ListDisplays")
	if call.Err != nil {
		return nil, call.Err
	}
	var wire []DisplayInfo
	if err := call.Store(&wire); err != nil {
		return nil, err
	}
	infos := make([]display.Info, 0, len(wire))
	for _, w := range wire {
		infos = append(infos, w.Info())
	}
	return infos, nil
}

// Version returns the daemon's version string.
func (c *Client) Version() (string, error) {
	call := c.call("Version")
	if call.Err != nil {
		return "", call.Err
	}
	var version string
	if err := call.Store(&version); err != nil {
		return "", err
	}
	return version, nil
}
