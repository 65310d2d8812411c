package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/viewbridge/viewbridge/internal/display"
	"github.com/viewbridge/viewbridge/internal/geometry"
)

func testDisplays() []display.Info {
	now := time.Now()
	return []display.Info{
		{
			Name:        "display-01HXX",
			WindowID:    "0x3200007",
			Mode:        "main",
			Rect:        geometry.Rect{X: 10, Y: 20, Width: 640, Height: 360},
			Interactive: true,
			Tracking:    true,
			CreatedAt:   now.Add(-5 * time.Minute),
		},
		{
			Name:      "projector",
			SourceID:  "camera",
			Mode:      "main",
			Rect:      geometry.Rect{Width: 1280, Height: 720},
			CreatedAt: now.Add(-2 * time.Hour),
		},
	}
}

func TestPlainFormatter_FormatDisplays(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewPlainFormatter(DefaultFormatterOptions())
	err := formatter.FormatDisplays(&buf, testDisplays())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)

	assert.Contains(t, lines[0], "display-01HXX")
	assert.Contains(t, lines[0], "mode=main")
	assert.Contains(t, lines[0], "window=0x3200007")
	assert.Contains(t, lines[0], "640x360+10+20")
	assert.Contains(t, lines[0], "tracking")

	assert.Contains(t, lines[1], "projector")
	assert.Contains(t, lines[1], "source=camera")
	assert.Contains(t, lines[1], "non-interactive")
	assert.NotContains(t, lines[1], "window=")
}

func TestPlainFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewPlainFormatter(DefaultFormatterOptions())
	err := formatter.FormatDisplays(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, "no displays\n", buf.String())
}

func TestPlainFormatter_NoAge(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.ShowAge = false
	formatter := NewPlainFormatter(opts)
	err := formatter.FormatDisplays(&buf, testDisplays())
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "ago")
}

func TestPlainFormatter_FormatStatus(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewPlainFormatter(DefaultFormatterOptions())
	err := formatter.FormatStatus(&buf, Status{
		Version:    "1.2.3",
		Resolution: "1920x1080",
		Displays:   testDisplays(),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "version: 1.2.3")
	assert.Contains(t, out, "base resolution: 1920x1080")
	assert.Contains(t, out, "displays: 2")
	assert.Contains(t, out, "  display-01HXX")
}

func TestJSONFormatter_FormatDisplays(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewJSONFormatter()
	err := formatter.FormatDisplays(&buf, testDisplays())
	require.NoError(t, err)

	var decoded []display.Info
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded, 2)
	assert.Equal(t, "display-01HXX", decoded[0].Name)
	assert.Equal(t, geometry.Rect{X: 10, Y: 20, Width: 640, Height: 360}, decoded[0].Rect)
}

func TestJSONFormatter_NilIsEmptyArray(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewJSONFormatter()
	err := formatter.FormatDisplays(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestJSONFormatter_FormatStatus(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewJSONFormatter()
	err := formatter.FormatStatus(&buf, Status{Version: "1.2.3", Resolution: "1280x720"})
	require.NoError(t, err)

	var decoded Status
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "1.2.3", decoded.Version)
	assert.Equal(t, "1280x720", decoded.Resolution)
	assert.NotNil(t, decoded.Displays)
}

func TestYAMLFormatter_FormatDisplays(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewYAMLFormatter()
	err := formatter.FormatDisplays(&buf, testDisplays())
	require.NoError(t, err)

	var decoded []display.Info
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded, 2)
	assert.Equal(t, "projector", decoded[1].Name)
	assert.Equal(t, "camera", decoded[1].SourceID)
}

func TestYAMLFormatter_FormatStatus(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewYAMLFormatter()
	err := formatter.FormatStatus(&buf, Status{Version: "1.2.3", Resolution: "1920x1080"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "version: 1.2.3")
	assert.Contains(t, out, "resolution: 1920x1080")
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format   FormatType
		expected Formatter
	}{
		{FormatPlain, &PlainFormatter{}},
		{FormatJSON, &JSONFormatter{}},
		{FormatYAML, &YAMLFormatter{}},
		{FormatType("bogus"), &PlainFormatter{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.IsType(t, tt.expected, NewFormatter(tt.format, DefaultFormatterOptions()))
		})
	}
}
