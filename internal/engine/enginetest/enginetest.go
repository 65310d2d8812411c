// Package enginetest provides a recording Compositor for tests.
package enginetest

import (
	"sync"

	"github.com/viewbridge/viewbridge/internal/engine"
	"github.com/viewbridge/viewbridge/internal/geometry"
	"github.com/viewbridge/viewbridge/internal/window"
)

var _ engine.Compositor = (*Recorder)(nil)

// Call is one recorded engine call.
type Call struct {
	Op      string
	Surface string
	Args    []any
}

// Recorder implements engine.Compositor, recording every call. Errors
// can be injected per operation with FailWith; preview queries answer
// with the values given to SetPreview.
type Recorder struct {
	mu     sync.Mutex
	calls  []Call
	failOn map[string]error
	offset geometry.Point
	size   geometry.Size
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{failOn: make(map[string]error)}
}

// FailWith makes every subsequent call of op return err. A nil err
// clears the injection.
func (r *Recorder) FailWith(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failOn, op)
		return
	}
	r.failOn[op] = err
}

// SetPreview sets the values PreviewOffset and PreviewSize answer with.
func (r *Recorder) SetPreview(offset geometry.Point, size geometry.Size) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offset = offset
	r.size = size
}

// Calls returns a copy of all recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallsFor returns the recorded calls of one operation in order.
func (r *Recorder) CallsFor(op string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// CountOf returns how many times op was called.
func (r *Recorder) CountOf(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset discards all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) record(op, surface string, args ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: op, Surface: surface, Args: args})
	return r.failOn[op]
}

func (r *Recorder) CreateSurface(name string, handle window.NativeHandle, mode engine.RenderMode) error {
	return engine.NewCallError("CreateSurface", name, r.record("CreateSurface", name, handle, mode))
}

func (r *Recorder) CreateSourceSurface(name string, handle window.NativeHandle, sourceID string) error {
	return engine.NewCallError("CreateSourceSurface", name, r.record("CreateSourceSurface", name, handle, sourceID))
}

func (r *Recorder) DestroySurface(name string) error {
	return engine.NewCallError("DestroySurface", name, r.record("DestroySurface", name))
}

func (r *Recorder) MoveSurface(name string, x, y int) error {
	return engine.NewCallError("MoveSurface", name, r.record("MoveSurface", name, x, y))
}

func (r *Recorder) ResizeSurface(name string, width, height int) error {
	return engine.NewCallError("ResizeSurface", name, r.record("ResizeSurface", name, width, height))
}

func (r *Recorder) SetPaddingColor(name string, color engine.Color) error {
	return engine.NewCallError("SetPaddingColor", name, r.record("SetPaddingColor", name, color))
}

func (r *Recorder) SetPaddingSize(name string, px int) error {
	return engine.NewCallError("SetPaddingSize", name, r.record("SetPaddingSize", name, px))
}

func (r *Recorder) SetDrawGuideLines(name string, draw bool) error {
	return engine.NewCallError("SetDrawGuideLines", name, r.record("SetDrawGuideLines", name, draw))
}

func (r *Recorder) SetFocused(name string, focused bool) error {
	return engine.NewCallError("SetFocused", name, r.record("SetFocused", name, focused))
}

func (r *Recorder) SetScaleFactor(name string, scale float64) error {
	return engine.NewCallError("SetScaleFactor", name, r.record("SetScaleFactor", name, scale))
}

func (r *Recorder) SetDrawUI(name string, draw bool) error {
	return engine.NewCallError("SetDrawUI", name, r.record("SetDrawUI", name, draw))
}

func (r *Recorder) PreviewOffset(name string) (geometry.Point, error) {
	if err := r.record("PreviewOffset", name); err != nil {
		return geometry.Point{}, engine.NewCallError("PreviewOffset", name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.offset, nil
}

func (r *Recorder) PreviewSize(name string) (geometry.Size, error) {
	if err := r.record("PreviewSize", name); err != nil {
		return geometry.Size{}, engine.NewCallError("PreviewSize", name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size, nil
}
