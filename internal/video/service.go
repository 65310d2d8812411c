// Package video exposes the engine's surface API together with the one
// piece of local state the application owns: the base output resolution,
// persisted as a "<width>x<height>" string setting. Everything else is a
// plain forward to the engine.
package video

import (
	"log/slog"

	"github.com/viewbridge/viewbridge/internal/engine"
	"github.com/viewbridge/viewbridge/internal/geometry"
	"github.com/viewbridge/viewbridge/internal/settings"
	"github.com/viewbridge/viewbridge/internal/window"
)

// Settings keys for the persisted base resolution.
const (
	sectionVideo = "Video"
	keyBase      = "Base"
)

// Service mediates between display handles and the rendering engine,
// adding persisted base-resolution state on top of the engine's calls.
type Service struct {
	engine engine.Compositor
	store  *settings.Store
	logger *slog.Logger
}

// NewService creates a video service on top of the given engine and
// settings store.
func NewService(comp engine.Compositor, store *settings.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		engine: comp,
		store:  store,
		logger: logger,
	}
}

// BaseResolution returns the persisted base resolution. A missing value
// yields the default; a malformed one yields the default with a warning.
// It never fails.
func (s *Service) BaseResolution() Resolution {
	raw, ok := s.store.Get(sectionVideo, keyBase)
	if !ok {
		return DefaultResolution
	}

	res, err := ParseResolution(raw)
	if err != nil {
		s.logger.Warn("stored base resolution is malformed, using default",
			"value", raw,
			"default", DefaultResolution.String(),
			"error", err)
		return DefaultResolution
	}
	return res
}

// SetBaseResolution validates and persists the base resolution.
func (s *Service) SetBaseResolution(res Resolution) error {
	if err := res.Validate(); err != nil {
		return err
	}
	return s.store.Set(sectionVideo, keyBase, res.String())
}

// OutputRegion returns the rectangle the engine actually draws preview
// content into within the named surface, composed from the engine's
// offset and size queries.
func (s *Service) OutputRegion(name string) (geometry.Rect, error) {
	offset, err := s.engine.PreviewOffset(name)
	if err != nil {
		return geometry.Rect{}, err
	}
	size, err := s.engine.PreviewSize(name)
	if err != nil {
		return geometry.Rect{}, err
	}
	return geometry.Rect{X: offset.X, Y: offset.Y, Width: size.Width, Height: size.Height}, nil
}

// The remaining methods forward to the engine unchanged.

func (s *Service) CreateSurface(name string, handle window.NativeHandle, mode engine.RenderMode) error {
	return s.engine.CreateSurface(name, handle, mode)
}

func (s *Service) CreateSourceSurface(name string, handle window.NativeHandle, sourceID string) error {
	return s.engine.CreateSourceSurface(name, handle, sourceID)
}

func (s *Service) DestroySurface(name string) error {
	return s.engine.DestroySurface(name)
}

func (s *Service) MoveSurface(name string, x, y int) error {
	return s.engine.MoveSurface(name, x, y)
}

func (s *Service) ResizeSurface(name string, width, height int) error {
	return s.engine.ResizeSurface(name, width, height)
}

func (s *Service) SetPaddingColor(name string, color engine.Color) error {
	return s.engine.SetPaddingColor(name, color)
}

func (s *Service) SetPaddingSize(name string, px int) error {
	return s.engine.SetPaddingSize(name, px)
}

func (s *Service) SetDrawGuideLines(name string, draw bool) error {
	return s.engine.SetDrawGuideLines(name, draw)
}

func (s *Service) SetFocused(name string, focused bool) error {
	return s.engine.SetFocused(name, focused)
}

func (s *Service) SetScaleFactor(name string, scale float64) error {
	return s.engine.SetScaleFactor(name, scale)
}

func (s *Service) SetDrawUI(name string, draw bool) error {
	return s.engine.SetDrawUI(name, draw)
}

func (s *Service) PreviewOffset(name string) (geometry.Point, error) {
	return s.engine.PreviewOffset(name)
}

func (s *Service) PreviewSize(name string) (geometry.Size, error) {
	return s.engine.PreviewSize(name)
}
