package ctl

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/viewbridge/viewbridge/internal/display"
	"github.com/viewbridge/viewbridge/internal/geometry"
	"github.com/viewbridge/viewbridge/internal/selection"
	"github.com/viewbridge/viewbridge/internal/video"
	"github.com/viewbridge/viewbridge/internal/window"
)

// ServerOptions locates the control service on the bus.
type ServerOptions struct {
	Bus     string // "session" or "system"
	Service string // empty means DefaultService
}

// Server exports the control interface over D-Bus and relays manager
// events out as signals.
type Server struct {
	conn    *dbus.Conn
	logger  *slog.Logger
	manager *display.Manager
	video   *video.Service
	sel     *selection.Tracker
	version string

	bus     string
	service string

	mu      sync.Mutex
	running bool
	cancels []func()
}

// NewServer creates a control server. Start connects and claims the name.
func NewServer(manager *display.Manager, video *video.Service, sel *selection.Tracker, version string, opts ServerOptions, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Service == "" {
		opts.Service = DefaultService
	}
	return &Server{
		logger:  logger,
		manager: manager,
		video:   video,
		sel:     sel,
		version: version,
		bus:     opts.Bus,
		service: opts.Service,
	}
}

// Start connects to the bus, exports the control object and claims the
// service name.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	var conn *dbus.Conn
	var err error
	switch s.bus {
	case "system":
		conn, err = dbus.SystemBus()
	default:
		conn, err = dbus.SessionBus()
	}
	if err != nil {
		return fmt.Errorf("failed to connect to %s bus: %w", s.bus, err)
	}
	s.conn = conn

	if err := conn.Export(s, Path, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: Path,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: controlMethods(),
				Signals: controlSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), Path,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(s.service, dbus.NameFlagDoNotQueue|dbus.NameFlagReplaceExisting)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", s.service)
	}

	cancelOutput := s.manager.OnOutput(func(name string, region geometry.Rect) {
		if err := s.EmitOutputChanged(name, region); err != nil {
			s.logger.Warn("failed to emit OutputChanged signal", "display", name, "error", err)
		}
	})
	cancelStyle := s.manager.OnStyleBlock(func(name string, blocked bool) {
		if err := s.EmitStyleBlockChanged(name, blocked); err != nil {
			s.logger.Warn("failed to emit StyleBlockChanged signal", "display", name, "error", err)
		}
	})

	s.mu.Lock()
	s.running = true
	s.cancels = []func(){cancelOutput, cancelStyle}
	s.mu.Unlock()

	s.logger.Info("control service started", "service", s.service, "path", Path)
	return nil
}

// Stop detaches the manager observers and releases the bus name.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(s.service); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		// Don't close the connection as it's shared (SessionBus)
	}

	s.logger.Info("control service stopped")
	return nil
}

// CreateDisplay creates a display on the named window and returns its
// (possibly minted) name.
// D-Bus method: CreateDisplay(ssa{sv}) -> s
func (s *Server) CreateDisplay(name, windowID string, options map[string]dbus.Variant) (string, *dbus.Error) {
	s.logger.Debug("CreateDisplay called", "name", name, "window", windowID)

	opts, err := parseCreateOptions(options)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	d, err := s.manager.Create(name, window.ID(windowID), opts)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return d.Name(), nil
}

// DestroyDisplay destroys a display by name.
// D-Bus method: DestroyDisplay(s) -> nothing
func (s *Server) DestroyDisplay(name string) *dbus.Error {
	s.logger.Debug("DestroyDisplay called", "name", name)

	if err := s.manager.Destroy(name); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// MoveDisplay positions a display surface.
// D-Bus method: MoveDisplay(sii) -> nothing
func (s *Server) MoveDisplay(name string, x, y int32) *dbus.Error {
	if err := s.manager.Move(name, int(x), int(y)); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// ResizeDisplay resizes a display surface.
// D-Bus method: ResizeDisplay(sii) -> nothing
func (s *Server) ResizeDisplay(name string, width, height int32) *dbus.Error {
	if err := s.manager.Resize(name, int(width), int(height)); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// SetRegion pushes a display's tracked client rectangle, starting the
// tracking loop on the first push.
// D-Bus method: SetRegion(siiii) -> nothing
func (s *Server) SetRegion(name string, x, y, width, height int32) *dbus.Error {
	rect := geometry.Rect{X: int(x), Y: int(y), Width: int(width), Height: int(height)}
	if err := s.manager.SetRegion(name, rect); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// SetSelection replaces the selection snapshot driving guide lines.
// D-Bus method: SetSelection(as) -> nothing
func (s *Server) SetSelection(ids []string) *dbus.Error {
	s.logger.Debug("SetSelection called", "count", len(ids))
	s.sel.Set(ids)
	return nil
}

// BaseResolution returns the configured base resolution.
// D-Bus method: BaseResolution() -> s
func (s *Server) BaseResolution() (string, *dbus.Error) {
	return s.video.BaseResolution().String(), nil
}

// SetBaseResolution sets and persists the base resolution.
// D-Bus method: SetBaseResolution(s) -> nothing
func (s *Server) SetBaseResolution(res string) *dbus.Error {
	parsed, err := video.ParseResolution(res)
	if err != nil {
		return dbus.MakeFailedError(err)
	}
	if err := s.video.SetBaseResolution(parsed); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// ListDisplays describes all live displays, sorted by name.
// D-Bus method: ListDisplays() -> a(ssssiiiibbbs)
func (s *Server) ListDisplays() ([]DisplayInfo, *dbus.Error) {
	snapshot := s.manager.Snapshot()
	infos := make([]DisplayInfo, 0, len(snapshot))
	for _, in := range snapshot {
		infos = append(infos, wireInfo(in))
	}
	return infos, nil
}

// Version returns the daemon version string.
// D-Bus method: Version() -> s
func (s *Server) Version() (string, *dbus.Error) {
	return s.version, nil
}

// controlMethods returns the D-Bus method introspection data.
func controlMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "CreateDisplay",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "in"},
				{Name: "window", Type: "s", Direction: "in"},
				{Name: "options", Type: "a{sv}", Direction: "in"},
				{Name: "created", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "DestroyDisplay",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "in"},
			},
		},
		{
			Name: "MoveDisplay",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "in"},
				{Name: "x", Type: "i", Direction: "in"},
				{Name: "y", Type: "i", Direction: "in"},
			},
		},
		{
			Name: "ResizeDisplay",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "in"},
				{Name: "width", Type: "i", Direction: "in"},
				{Name: "height", Type: "i", Direction: "in"},
			},
		},
		{
			Name: "SetRegion",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "in"},
				{Name: "x", Type: "i", Direction: "in"},
				{Name: "y", Type: "i", Direction: "in"},
				{Name: "width", Type: "i", Direction: "in"},
				{Name: "height", Type: "i", Direction: "in"},
			},
		},
		{
			Name: "SetSelection",
			Args: []introspect.Arg{
				{Name: "ids", Type: "as", Direction: "in"},
			},
		},
		{
			Name: "BaseResolution",
			Args: []introspect.Arg{
				{Name: "resolution", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "SetBaseResolution",
			Args: []introspect.Arg{
				{Name: "resolution", Type: "s", Direction: "in"},
			},
		},
		{
			Name: "ListDisplays",
			Args: []introspect.Arg{
				{Name: "displays", Type: "a(ssssiiiibbbs)", Direction: "out"},
			},
		},
		{
			Name: "Version",
			Args: []introspect.Arg{
				{Name: "version", Type: "s", Direction: "out"},
			},
		},
	}
}

// controlSignals returns the D-Bus signal introspection data.
func controlSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "OutputChanged",
			Args: []introspect.Arg{
				{Name: "name", Type: "s"},
				{Name: "x", Type: "i"},
				{Name: "y", Type: "i"},
				{Name: "width", Type: "i"},
				{Name: "height", Type: "i"},
			},
		},
		{
			Name: "StyleBlockChanged",
			Args: []introspect.Arg{
				{Name: "name", Type: "s"},
				{Name: "blocked", Type: "b"},
			},
		},
	}
}
