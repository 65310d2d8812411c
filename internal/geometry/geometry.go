// Package geometry provides the pixel rectangle math used to position
// rendering surfaces: screen-space translation of window-relative regions
// and scale-factor conversion between logical and physical coordinates.
package geometry

import (
	"fmt"
	"math"
)

// Point is a position in pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRect returns a rectangle with the given origin and size.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Origin returns the rectangle's top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// IsZero reports whether the rectangle is the zero value.
func (r Rect) IsZero() bool {
	return r == Rect{}
}

// Offset returns the rectangle translated by (dx, dy).
func (r Rect) Offset(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Scale returns the rectangle with every component multiplied by factor,
// rounded to the nearest pixel. A factor of 0 or 1 returns r unchanged.
func (r Rect) Scale(factor float64) Rect {
	if factor == 0 || factor == 1 {
		return r
	}
	return Rect{
		X:      round(float64(r.X) * factor),
		Y:      round(float64(r.Y) * factor),
		Width:  round(float64(r.Width) * factor),
		Height: round(float64(r.Height) * factor),
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// ScreenRect translates a window-relative client rectangle into screen
// space: the client origin is offset by the window's screen position, and
// the result is converted to physical pixels using the display scale
// factor. This is the rectangle a native surface must occupy to cover the
// tracked region exactly.
func ScreenRect(windowBounds Rect, client Rect, scale float64) Rect {
	screen := client.Offset(windowBounds.X, windowBounds.Y)
	return screen.Scale(scale)
}

func round(v float64) int {
	return int(math.Round(v))
}
