package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viewbridge/viewbridge/internal/display"
	"github.com/viewbridge/viewbridge/internal/geometry"
)

func TestDisplayItemDescription(t *testing.T) {
	tests := []struct {
		name     string
		info     display.Info
		expected string
	}{
		{
			name: "mode display",
			info: display.Info{
				Mode:        "main",
				Rect:        geometry.Rect{X: 10, Y: 20, Width: 640, Height: 360},
				Interactive: true,
			},
			expected: "mode=main  640x360+10+20",
		},
		{
			name: "source display",
			info: display.Info{
				SourceID:    "camera",
				Mode:        "main",
				Rect:        geometry.Rect{Width: 1280, Height: 720},
				Interactive: true,
			},
			expected: "source=camera  1280x720+0+0",
		},
		{
			name: "tracking and blocked",
			info: display.Info{
				Mode:         "stream",
				Rect:         geometry.Rect{Width: 100, Height: 100},
				Interactive:  true,
				Tracking:     true,
				StyleBlocked: true,
			},
			expected: "mode=stream  100x100+0+0  tracking  style-blocked",
		},
		{
			name: "non-interactive",
			info: display.Info{
				Mode: "main",
			},
			expected: "mode=main  0x0+0+0  non-interactive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, displayItem{info: tt.info}.Description())
		})
	}
}

func TestFindDisplay(t *testing.T) {
	m := Model{displays: []display.Info{
		{Name: "alpha"},
		{Name: "beta"},
	}}

	d, ok := m.findDisplay("beta")
	assert.True(t, ok)
	assert.Equal(t, "beta", d.Name)

	_, ok = m.findDisplay("gamma")
	assert.False(t, ok)
}

func TestBuildListItems(t *testing.T) {
	m := Model{displays: []display.Info{
		{Name: "alpha"},
		{Name: "beta"},
	}}

	items := m.buildListItems()
	assert.Len(t, items, 2)
	assert.Equal(t, "alpha", items[0].(displayItem).Title())
}
