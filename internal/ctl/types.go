// Package ctl is the daemon's control surface: the org.viewbridge.Control1
// D-Bus service the CLI and TUI drive, plus the client used to call it.
package ctl

import (
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/viewbridge/viewbridge/internal/display"
	"github.com/viewbridge/viewbridge/internal/engine"
	"github.com/viewbridge/viewbridge/internal/geometry"
)

const (
	// Interface is the control interface name.
	Interface = "org.viewbridge.Control1"
	// Path is the control object path.
	Path = "/org/viewbridge/Control1"
	// DefaultService is the well-known bus name the daemon claims.
	DefaultService = "org.viewbridge.Control1"
)

// DisplayInfo is the wire form of one display row, marshalled as the
// D-Bus struct (ssssiiiibbbs). CreatedAt travels as RFC 3339.
type DisplayInfo struct {
	Name         string
	WindowID     string
	SourceID     string
	Mode         string
	X            int32
	Y            int32
	Width        int32
	Height       int32
	Interactive  bool
	Tracking     bool
	StyleBlocked bool
	CreatedAt    string
}

// wireInfo converts a manager snapshot row to its wire form.
func wireInfo(in display.Info) DisplayInfo {
	return DisplayInfo{
		Name:         in.Name,
		WindowID:     in.WindowID,
		SourceID:     in.SourceID,
		Mode:         in.Mode,
		X:            int32(in.Rect.X),
		Y:            int32(in.Rect.Y),
		Width:        int32(in.Rect.Width),
		Height:       int32(in.Rect.Height),
		Interactive:  in.Interactive,
		Tracking:     in.Tracking,
		StyleBlocked: in.StyleBlocked,
		CreatedAt:    in.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Info converts the wire form back to the shape the formatters consume.
// An unparseable CreatedAt becomes the zero time rather than an error.
func (w DisplayInfo) Info() display.Info {
	created, _ := time.Parse(time.RFC3339Nano, w.CreatedAt)
	return display.Info{
		Name:         w.Name,
		WindowID:     w.WindowID,
		SourceID:     w.SourceID,
		Mode:         w.Mode,
		Rect:         geometry.Rect{X: int(w.X), Y: int(w.Y), Width: int(w.Width), Height: int(w.Height)},
		Interactive:  w.Interactive,
		Tracking:     w.Tracking,
		StyleBlocked: w.StyleBlocked,
		CreatedAt:    created,
	}
}

// CreateOptions are the optional CreateDisplay settings. They travel as
// an a{sv} map so adding options never breaks the wire signature; zero
// fields are omitted and take the daemon's defaults.
type CreateOptions struct {
	Source        string
	Mode          string
	PaddingColor  string
	PaddingSize   int
	TrackInterval time.Duration
	MoveDebounce  time.Duration
}

func (o CreateOptions) variants() map[string]dbus.Variant {
	m := make(map[string]dbus.Variant)
	if o.Source != "" {
		m["source"] = dbus.MakeVariant(o.Source)
	}
	if o.Mode != "" {
		m["mode"] = dbus.MakeVariant(o.Mode)
	}
	if o.PaddingColor != "" {
		m["padding_color"] = dbus.MakeVariant(o.PaddingColor)
	}
	if o.PaddingSize > 0 {
		m["padding_size"] = dbus.MakeVariant(int32(o.PaddingSize))
	}
	if o.TrackInterval > 0 {
		m["track_interval_ms"] = dbus.MakeVariant(int32(o.TrackInterval / time.Millisecond))
	}
	if o.MoveDebounce > 0 {
		m["move_debounce_ms"] = dbus.MakeVariant(int32(o.MoveDebounce / time.Millisecond))
	}
	return m
}

// parseCreateOptions converts an incoming a{sv} map to display options.
// Unknown keys and mistyped values are ignored; malformed mode and color
// strings are errors so the caller learns about the typo.
func parseCreateOptions(in map[string]dbus.Variant) (display.Options, error) {
	var opts display.Options

	if v, ok := in["source"]; ok {
		if s, ok := v.Value().(string); ok {
			opts.SourceID = s
		}
	}
	if v, ok := in["mode"]; ok {
		if s, ok := v.Value().(string); ok {
			mode, err := engine.ParseRenderMode(s)
			if err != nil {
				return opts, err
			}
			opts.Mode = mode
		}
	}
	if v, ok := in["padding_color"]; ok {
		if s, ok := v.Value().(string); ok {
			color, err := engine.ParseColor(s)
			if err != nil {
				return opts, err
			}
			opts.PaddingColor = color
		}
	}
	if v, ok := in["padding_size"]; ok {
		if n, ok := v.Value().(int32); ok {
			opts.PaddingSize = int(n)
		}
	}
	if v, ok := in["track_interval_ms"]; ok {
		if n, ok := v.Value().(int32); ok {
			opts.TrackInterval = time.Duration(n) * time.Millisecond
		}
	}
	if v, ok := in["move_debounce_ms"]; ok {
		if n, ok := v.Value().(int32); ok {
			opts.MoveDebounce = time.Duration(n) * time.Millisecond
		}
	}

	return opts, nil
}
