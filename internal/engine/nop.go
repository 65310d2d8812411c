package engine

import (
	"github.com/viewbridge/viewbridge/internal/geometry"
	"github.com/viewbridge/viewbridge/internal/window"
)

// Nop is a Compositor that accepts every call and renders nothing. It
// backs engine-less operation so the daemon's window tracking and control
// surface stay usable without the native engine running.
type Nop struct{}

func (Nop) CreateSurface(string, window.NativeHandle, RenderMode) error { return nil }
func (Nop) CreateSourceSurface(string, window.NativeHandle, string) error {
	return nil
}
func (Nop) DestroySurface(string) error           { return nil }
func (Nop) MoveSurface(string, int, int) error    { return nil }
func (Nop) ResizeSurface(string, int, int) error  { return nil }
func (Nop) SetPaddingColor(string, Color) error   { return nil }
func (Nop) SetPaddingSize(string, int) error      { return nil }
func (Nop) SetDrawGuideLines(string, bool) error  { return nil }
func (Nop) SetFocused(string, bool) error         { return nil }
func (Nop) SetScaleFactor(string, float64) error  { return nil }
func (Nop) SetDrawUI(string, bool) error          { return nil }
func (Nop) PreviewOffset(string) (geometry.Point, error) {
	return geometry.Point{}, nil
}
func (Nop) PreviewSize(string) (geometry.Size, error) {
	return geometry.Size{}, nil
}
