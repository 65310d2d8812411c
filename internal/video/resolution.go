package video

import (
	"fmt"
	"strconv"
	"strings"
)

// Resolution is a video resolution in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultResolution is used when no base resolution has been stored.
var DefaultResolution = Resolution{Width: 1920, Height: 1080}

// maxDimension bounds accepted resolutions; the engine rejects larger
// canvases.
const maxDimension = 16384

// ParseResolution parses the persisted "<width>x<height>" form.
func ParseResolution(s string) (Resolution, error) {
	w, h, ok := strings.Cut(strings.TrimSpace(s), "x")
	if !ok {
		return Resolution{}, fmt.Errorf("invalid resolution %q: want <width>x<height>", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid resolution width %q: %w", w, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid resolution height %q: %w", h, err)
	}

	res := Resolution{Width: width, Height: height}
	if err := res.Validate(); err != nil {
		return Resolution{}, err
	}
	return res, nil
}

// Validate checks the resolution is positive and within engine bounds.
func (r Resolution) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("resolution %s: dimensions must be positive", r)
	}
	if r.Width > maxDimension || r.Height > maxDimension {
		return fmt.Errorf("resolution %s: dimensions must be at most %d", r, maxDimension)
	}
	return nil
}

// String renders the persisted "<width>x<height>" form.
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}
