package output

import (
	"encoding/json"
	"io"

	"github.com/viewbridge/viewbridge/internal/display"
)

// JSONFormatter formats listings as indented JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatDisplays writes the displays as a JSON array. A nil slice is
// written as [] so consumers always get an array.
func (f *JSONFormatter) FormatDisplays(w io.Writer, displays []display.Info) error {
	if displays == nil {
		displays = []display.Info{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(displays)
}

// FormatStatus writes the status as a JSON object.
func (f *JSONFormatter) FormatStatus(w io.Writer, status Status) error {
	if status.Displays == nil {
		status.Displays = []display.Info{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(status)
}
