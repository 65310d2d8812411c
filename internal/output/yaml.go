package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/viewbridge/viewbridge/internal/display"
)

// YAMLFormatter formats listings as YAML.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// FormatDisplays writes the displays as a YAML sequence.
func (f *YAMLFormatter) FormatDisplays(w io.Writer, displays []display.Info) error {
	data, err := yaml.Marshal(displays)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// FormatStatus writes the status as a YAML document.
func (f *YAMLFormatter) FormatStatus(w io.Writer, status Status) error {
	data, err := yaml.Marshal(status)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
