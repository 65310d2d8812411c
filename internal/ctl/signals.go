package ctl

import (
	"fmt"

	"github.com/viewbridge/viewbridge/internal/geometry"
)

// EmitOutputChanged emits the OutputChanged signal. It fires whenever a
// display's engine output region moves or resizes, so embedders can
// reposition overlays without polling.
func (s *Server) EmitOutputChanged(name string, region geometry.Rect) error {
	if s.conn == nil {
		return fmt.Errorf("not connected")
	}

	err := s.conn.Emit(Path, Interface+".OutputChanged",
		name, int32(region.X), int32(region.Y), int32(region.Width), int32(region.Height))
	if err != nil {
		return fmt.Errorf("failed to emit OutputChanged signal: %w", err)
	}

	s.logger.Debug("emitted OutputChanged signal", "display", name, "region", region)
	return nil
}

// EmitStyleBlockChanged emits the StyleBlockChanged signal. It fires on
// the debounced move-blocker transitions.
func (s *Server) EmitStyleBlockChanged(name string, blocked bool) error {
	if s.conn == nil {
		return fmt.Errorf("not connected")
	}

	err := s.conn.Emit(Path, Interface+".StyleBlockChanged", name, blocked)
	if err != nil {
		return fmt.Errorf("failed to emit StyleBlockChanged signal: %w", err)
	}

	s.logger.Debug("emitted StyleBlockChanged signal", "display", name, "blocked", blocked)
	return nil
}
