package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRect_Offset(t *testing.T) {
	r := NewRect(10, 20, 100, 50)
	moved := r.Offset(5, -5)

	assert.Equal(t, NewRect(15, 15, 100, 50), moved)
	// Original is unchanged (value semantics).
	assert.Equal(t, NewRect(10, 20, 100, 50), r)
}

func TestRect_Scale(t *testing.T) {
	tests := []struct {
		name   string
		in     Rect
		factor float64
		want   Rect
	}{
		{"identity", NewRect(10, 10, 100, 100), 1.0, NewRect(10, 10, 100, 100)},
		{"zero factor keeps rect", NewRect(10, 10, 100, 100), 0, NewRect(10, 10, 100, 100)},
		{"double", NewRect(10, 20, 30, 40), 2.0, NewRect(20, 40, 60, 80)},
		{"hidpi rounds to nearest", NewRect(7, 7, 11, 11), 1.5, NewRect(11, 11, 17, 17)},
		{"downscale", NewRect(100, 100, 50, 50), 0.5, NewRect(50, 50, 25, 25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Scale(tt.factor))
		})
	}
}

func TestScreenRect(t *testing.T) {
	window := NewRect(200, 300, 1280, 720)
	client := NewRect(16, 48, 640, 360)

	got := ScreenRect(window, client, 1.0)
	assert.Equal(t, NewRect(216, 348, 640, 360), got)
}

func TestScreenRect_ScaleFactor(t *testing.T) {
	window := NewRect(100, 100, 800, 600)
	client := NewRect(10, 10, 200, 100)

	// Translation happens in logical space, scaling afterwards.
	got := ScreenRect(window, client, 2.0)
	assert.Equal(t, NewRect(220, 220, 400, 200), got)
}

func TestRect_Accessors(t *testing.T) {
	r := NewRect(1, 2, 3, 4)

	assert.Equal(t, Point{X: 1, Y: 2}, r.Origin())
	assert.Equal(t, Size{Width: 3, Height: 4}, r.Size())
	assert.False(t, r.IsZero())
	assert.True(t, Rect{}.IsZero())
	assert.Equal(t, "3x4+1+2", r.String())
}
