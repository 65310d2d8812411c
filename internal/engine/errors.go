package engine

import "errors"

// ErrNotConnected is returned when the engine transport is down.
var ErrNotConnected = errors.New("engine not connected")

// ErrSurfaceNotFound is returned for operations on an unknown surface.
var ErrSurfaceNotFound = errors.New("surface not found")

// CallError reports a failed engine call. It carries the operation and
// surface so callers can log a failure without losing the wrapped cause.
type CallError struct {
	Op      string
	Surface string
	Err     error
}

func (e *CallError) Error() string {
	if e.Surface == "" {
		return "engine: " + e.Op + ": " + e.Err.Error()
	}
	return "engine: " + e.Op + " " + e.Surface + ": " + e.Err.Error()
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// NewCallError wraps err as a CallError. A nil err returns nil.
func NewCallError(op, surface string, err error) error {
	if err == nil {
		return nil
	}
	return &CallError{Op: op, Surface: surface, Err: err}
}
