package display

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/viewbridge/viewbridge/internal/geometry"
	"github.com/viewbridge/viewbridge/internal/selection"
	"github.com/viewbridge/viewbridge/internal/video"
	"github.com/viewbridge/viewbridge/internal/window"
)

// Info is a point-in-time description of one display, the shape the
// control surface and status formatters report.
type Info struct {
	Name         string        `json:"name" yaml:"name"`
	WindowID     string        `json:"window_id,omitempty" yaml:"window_id,omitempty"`
	SourceID     string        `json:"source_id,omitempty" yaml:"source_id,omitempty"`
	Mode         string        `json:"mode" yaml:"mode"`
	Rect         geometry.Rect `json:"rect" yaml:"rect"`
	Interactive  bool          `json:"interactive" yaml:"interactive"`
	Tracking     bool          `json:"tracking" yaml:"tracking"`
	StyleBlocked bool          `json:"style_blocked" yaml:"style_blocked"`
	CreatedAt    time.Time     `json:"created_at" yaml:"created_at"`
}

// Manager owns all live displays, keyed by unique surface name. It
// resolves windows, fills in configured defaults, mints names, and fans
// display events out to manager-level observers.
type Manager struct {
	windows  window.System
	svc      *video.Service
	sel      *selection.Tracker
	logger   *slog.Logger
	defaults Options

	mu        sync.Mutex
	displays  map[string]*Display
	regions   map[string]*Region
	nextObs   int
	outputObs map[int]func(name string, region geometry.Rect)
	styleObs  map[int]func(name string, blocked bool)
}

// NewManager creates a manager. defaults fills the zero fields of each
// Create's options.
func NewManager(windows window.System, svc *video.Service, sel *selection.Tracker, defaults Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if defaults.TrackInterval <= 0 {
		defaults.TrackInterval = DefaultTrackInterval
	}
	if defaults.MoveDebounce <= 0 {
		defaults.MoveDebounce = DefaultMoveDebounce
	}
	if defaults.PaddingSize <= 0 {
		defaults.PaddingSize = DefaultPaddingSize
	}
	if defaults.PaddingColor == 0 {
		defaults.PaddingColor = DefaultPaddingColor
	}

	return &Manager{
		windows:   windows,
		svc:       svc,
		sel:       sel,
		logger:    logger,
		defaults:  defaults,
		displays:  make(map[string]*Display),
		regions:   make(map[string]*Region),
		outputObs: make(map[int]func(string, geometry.Rect)),
		styleObs:  make(map[int]func(string, bool)),
	}
}

// Defaults returns the options applied to zero Create fields.
func (m *Manager) Defaults() Options {
	return m.defaults
}

// Create resolves windowID and creates a display on it. An empty name
// is minted. A window that cannot be found produces a non-interactive
// display rather than an error; other resolution failures propagate.
// Zero option fields take the manager defaults; a zero padding color
// selects the default dark gray.
func (m *Manager) Create(name string, windowID window.ID, opts Options) (*Display, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		name = "display-" + ulid.Make().String()
	}
	if _, ok := m.displays[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrNameInUse, name)
	}

	win, err := m.windows.Resolve(windowID)
	if err != nil {
		if !errors.Is(err, window.ErrWindowNotFound) {
			return nil, err
		}
		m.logger.Warn("window not found, creating non-interactive display",
			"window", string(windowID),
			"display", name)
		win = nil
	}

	if opts.TrackInterval <= 0 {
		opts.TrackInterval = m.defaults.TrackInterval
	}
	if opts.MoveDebounce <= 0 {
		opts.MoveDebounce = m.defaults.MoveDebounce
	}
	if opts.PaddingSize <= 0 {
		opts.PaddingSize = m.defaults.PaddingSize
	}
	if opts.PaddingColor == 0 {
		opts.PaddingColor = m.defaults.PaddingColor
	}

	d, err := New(name, win, m.svc, m.sel, opts, m.logger)
	if err != nil {
		return nil, err
	}

	d.setOnClose(func() { m.remove(d.name) })
	d.OnOutputResize(func(region geometry.Rect) { m.notifyOutput(d.name, region) })
	d.OnStyleBlock(func(blocked bool) { m.notifyStyle(d.name, blocked) })

	m.displays[name] = d
	m.logger.Info("display created",
		"name", name,
		"window", string(windowID),
		"interactive", d.Interactive())
	return d, nil
}

// Get returns the display named name.
func (m *Manager) Get(name string) (*Display, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.displays[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return d, nil
}

// Destroy destroys the display named name.
func (m *Manager) Destroy(name string) error {
	d, err := m.Get(name)
	if err != nil {
		return err
	}
	d.Destroy()
	return nil
}

// Move forwards a move to the named display.
func (m *Manager) Move(name string, x, y int) error {
	d, err := m.Get(name)
	if err != nil {
		return err
	}
	return d.Move(x, y)
}

// Resize forwards a resize to the named display.
func (m *Manager) Resize(name string, width, height int) error {
	d, err := m.Get(name)
	if err != nil {
		return err
	}
	return d.Resize(width, height)
}

// SetRegion updates the named display's tracked client rectangle,
// starting the tracking loop on the first push.
func (m *Manager) SetRegion(name string, rect geometry.Rect) error {
	d, err := m.Get(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	region, ok := m.regions[name]
	if !ok {
		region = &Region{}
		m.regions[name] = region
	}
	m.mu.Unlock()

	region.Update(rect)
	if !d.Tracking() {
		return d.TrackRegion(region)
	}
	return nil
}

// Len returns the number of live displays.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.displays)
}

// Names returns the live display names in sorted order.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.displays))
	for name := range m.displays {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot describes all live displays, sorted by name.
func (m *Manager) Snapshot() []Info {
	m.mu.Lock()
	displays := make([]*Display, 0, len(m.displays))
	for _, d := range m.displays {
		displays = append(displays, d)
	}
	m.mu.Unlock()

	infos := make([]Info, 0, len(displays))
	for _, d := range displays {
		infos = append(infos, Info{
			Name:         d.Name(),
			WindowID:     string(d.WindowID()),
			SourceID:     d.SourceID(),
			Mode:         d.Mode().String(),
			Rect:         d.Rect(),
			Interactive:  d.Interactive(),
			Tracking:     d.Tracking(),
			StyleBlocked: d.StyleBlocked(),
			CreatedAt:    d.CreatedAt(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// OnOutput registers fn for output-region changes of any display. The
// returned cancel is idempotent.
func (m *Manager) OnOutput(fn func(name string, region geometry.Rect)) (cancel func()) {
	m.mu.Lock()
	id := m.nextObs
	m.nextObs++
	m.outputObs[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.outputObs, id)
			m.mu.Unlock()
		})
	}
}

// OnStyleBlock registers fn for style-block changes of any display. The
// returned cancel is idempotent.
func (m *Manager) OnStyleBlock(fn func(name string, blocked bool)) (cancel func()) {
	m.mu.Lock()
	id := m.nextObs
	m.nextObs++
	m.styleObs[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.styleObs, id)
			m.mu.Unlock()
		})
	}
}

// CloseAll destroys every display, used at daemon shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	displays := make([]*Display, 0, len(m.displays))
	for _, d := range m.displays {
		displays = append(displays, d)
	}
	m.mu.Unlock()

	for _, d := range displays {
		d.Destroy()
	}
}

func (m *Manager) remove(name string) {
	m.mu.Lock()
	delete(m.displays, name)
	delete(m.regions, name)
	m.mu.Unlock()

	m.logger.Debug("display removed", "name", name)
}

func (m *Manager) notifyOutput(name string, region geometry.Rect) {
	m.mu.Lock()
	obs := make([]func(string, geometry.Rect), 0, len(m.outputObs))
	for _, fn := range m.outputObs {
		obs = append(obs, fn)
	}
	m.mu.Unlock()

	for _, fn := range obs {
		fn(name, region)
	}
}

func (m *Manager) notifyStyle(name string, blocked bool) {
	m.mu.Lock()
	obs := make([]func(string, bool), 0, len(m.styleObs))
	for _, fn := range m.styleObs {
		obs = append(obs, fn)
	}
	m.mu.Unlock()

	for _, fn := range obs {
		fn(name, blocked)
	}
}
