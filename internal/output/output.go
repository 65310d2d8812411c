// Package output provides output formatters for display listings and
// daemon status.
package output

import (
	"io"

	"github.com/viewbridge/viewbridge/internal/display"
)

// Formatter renders display listings and status snapshots.
type Formatter interface {
	// FormatDisplays writes the display listing to the writer.
	FormatDisplays(w io.Writer, displays []display.Info) error
	// FormatStatus writes the daemon status to the writer.
	FormatStatus(w io.Writer, status Status) error
}

// Status is the daemon snapshot the status command renders.
type Status struct {
	Version    string         `json:"version" yaml:"version"`
	Resolution string         `json:"resolution" yaml:"resolution"`
	Displays   []display.Info `json:"displays" yaml:"displays"`
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter()
	case FormatYAML:
		return NewYAMLFormatter()
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures plain-text formatter behavior. The
// structured formats ignore it.
type FormatterOptions struct {
	ShowAge  bool // Show humanized created-at age
	ShowRect bool // Show the surface rectangle
}

// DefaultFormatterOptions returns sensible defaults for terminal output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowAge:  true,
		ShowRect: true,
	}
}
