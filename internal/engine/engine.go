// Package engine defines the control surface of the native rendering
// engine: named surfaces composited into host windows, with padding,
// guide lines, focus state and preview-region queries. The engine itself
// is external; this package only fixes call shapes and error kinds.
package engine

import (
	"fmt"
	"strings"

	"github.com/viewbridge/viewbridge/internal/geometry"
	"github.com/viewbridge/viewbridge/internal/window"
)

// RenderMode selects which mix a surface composites.
type RenderMode int

const (
	// RenderModeMain composites the main editing preview.
	RenderModeMain RenderMode = iota
	// RenderModeStream composites the stream output mix.
	RenderModeStream
	// RenderModeRecord composites the record output mix.
	RenderModeRecord
)

// renderModeNames maps render modes to their wire/config names.
var renderModeNames = map[RenderMode]string{
	RenderModeMain:   "main",
	RenderModeStream: "stream",
	RenderModeRecord: "record",
}

func (m RenderMode) String() string {
	if name, ok := renderModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseRenderMode parses a render-mode name. The empty string means
// RenderModeMain.
func ParseRenderMode(s string) (RenderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "main":
		return RenderModeMain, nil
	case "stream":
		return RenderModeStream, nil
	case "record":
		return RenderModeRecord, nil
	}
	return RenderModeMain, fmt.Errorf("unknown render mode %q", s)
}

// Color is a 24-bit RGB color in 0xRRGGBB form, the shape the engine's
// padding-color call expects.
type Color uint32

// RGB packs components into a Color.
func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// ParseColor parses "#rrggbb" or "rrggbb".
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return 0, fmt.Errorf("invalid color %q: want rrggbb", s)
	}
	var v uint32
	if _, err := fmt.Sscanf(s, "%06x", &v); err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color(v), nil
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c))
}

// Compositor is the rendering engine's surface API. Calls are synchronous;
// every failure is reported as a *CallError so callers can distinguish
// engine failures from local ones.
type Compositor interface {
	// CreateSurface allocates a named surface compositing the given mix
	// into the window identified by handle.
	CreateSurface(name string, handle window.NativeHandle, mode RenderMode) error

	// CreateSourceSurface allocates a named surface previewing a single
	// source instead of a full mix.
	CreateSourceSurface(name string, handle window.NativeHandle, sourceID string) error

	// DestroySurface releases a surface. Destroying an unknown surface is
	// an error.
	DestroySurface(name string) error

	// MoveSurface positions the surface at (x, y) in physical pixels.
	MoveSurface(name string, x, y int) error

	// ResizeSurface sets the surface extent in physical pixels.
	ResizeSurface(name string, width, height int) error

	// SetPaddingColor sets the letterbox padding color.
	SetPaddingColor(name string, color Color) error

	// SetPaddingSize sets the letterbox padding in pixels.
	SetPaddingSize(name string, px int) error

	// SetDrawGuideLines toggles alignment guide lines over the surface.
	SetDrawGuideLines(name string, draw bool) error

	// SetFocused forwards the host window's focus state to the surface.
	SetFocused(name string, focused bool) error

	// SetScaleFactor tells the engine the display scale of the surface's
	// window.
	SetScaleFactor(name string, scale float64) error

	// SetDrawUI toggles the engine's own UI chrome over the surface.
	SetDrawUI(name string, draw bool) error

	// PreviewOffset returns the offset at which preview content is drawn
	// within the surface.
	PreviewOffset(name string) (geometry.Point, error)

	// PreviewSize returns the size of the preview content within the
	// surface.
	PreviewSize(name string) (geometry.Size, error)
}
