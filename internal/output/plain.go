package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/viewbridge/viewbridge/internal/display"
)

// PlainFormatter formats listings as plain text, one display per line.
type PlainFormatter struct {
	opts FormatterOptions
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	return &PlainFormatter{opts: opts}
}

// FormatDisplays writes one line per display.
func (f *PlainFormatter) FormatDisplays(w io.Writer, displays []display.Info) error {
	if len(displays) == 0 {
		_, err := fmt.Fprintln(w, "no displays")
		return err
	}
	for _, d := range displays {
		if _, err := fmt.Fprintln(w, f.formatDisplay(d)); err != nil {
			return err
		}
	}
	return nil
}

// FormatStatus writes a short header followed by the display listing.
func (f *PlainFormatter) FormatStatus(w io.Writer, status Status) error {
	if _, err := fmt.Fprintf(w, "version: %s\n", status.Version); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "base resolution: %s\n", status.Resolution); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "displays: %d\n", len(status.Displays)); err != nil {
		return err
	}
	for _, d := range status.Displays {
		if _, err := fmt.Fprintf(w, "  %s\n", f.formatDisplay(d)); err != nil {
			return err
		}
	}
	return nil
}

// formatDisplay renders one display row from its non-empty parts.
func (f *PlainFormatter) formatDisplay(d display.Info) string {
	parts := []string{d.Name}

	if d.SourceID != "" {
		parts = append(parts, "source="+d.SourceID)
	} else {
		parts = append(parts, "mode="+d.Mode)
	}
	if d.WindowID != "" {
		parts = append(parts, "window="+d.WindowID)
	}
	if f.opts.ShowRect {
		parts = append(parts, d.Rect.String())
	}
	if !d.Interactive {
		parts = append(parts, "non-interactive")
	}
	if d.Tracking {
		parts = append(parts, "tracking")
	}
	if d.StyleBlocked {
		parts = append(parts, "style-blocked")
	}
	if f.opts.ShowAge && !d.CreatedAt.IsZero() {
		parts = append(parts, "("+humanize.Time(d.CreatedAt)+")")
	}

	return strings.Join(parts, "  ")
}
