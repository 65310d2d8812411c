package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/viewbridge/viewbridge/internal/engine"
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "100ms", "5s", "1m", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Try parsing as integer (milliseconds) for backwards compatibility
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '100ms', '5s', '1m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Bus selects which message bus to use.
type Bus string

const (
	BusSession Bus = "session"
	BusSystem  Bus = "system"
)

// ValidBuses returns all valid bus values.
func ValidBuses() []Bus {
	return []Bus{BusSession, BusSystem}
}

// WindowBackend selects the window-system adapter.
type WindowBackend string

const (
	WindowBackendX11  WindowBackend = "x11"
	WindowBackendNull WindowBackend = "null"
)

// ValidWindowBackends returns all valid window backend values.
func ValidWindowBackends() []WindowBackend {
	return []WindowBackend{WindowBackendX11, WindowBackendNull}
}

// Well-known D-Bus names.
const (
	DefaultEngineService  = "org.viewbridge.Engine1"
	DefaultEnginePath     = "/org/viewbridge/Engine1"
	DefaultControlService = "org.viewbridge.Control1"
)

// DaemonConfig is the configuration for viewbridged.
// Loaded from ~/.config/viewbridge/viewbridged.toml
type DaemonConfig struct {
	Engine   EngineConfig   `toml:"engine"`
	Control  ServiceConfig  `toml:"control"`
	Window   WindowConfig   `toml:"window"`
	Display  DisplayConfig  `toml:"display"`
	Settings SettingsConfig `toml:"settings"`
	Log      LogConfig      `toml:"log"`
}

// EngineConfig describes the rendering engine's D-Bus service.
type EngineConfig struct {
	Bus            string   `toml:"bus"`             // session or system
	Service        string   `toml:"service"`         // Well-known name
	ObjectPath     string   `toml:"object_path"`     // Object path
	ConnectTimeout Duration `toml:"connect_timeout"` // e.g., "5s"
}

// ServiceConfig describes the daemon's own control service.
type ServiceConfig struct {
	Bus     string `toml:"bus"`
	Service string `toml:"service"`
}

// WindowConfig selects and tunes the window-system adapter.
type WindowConfig struct {
	Backend     string  `toml:"backend"`      // x11 or null
	Display     string  `toml:"display"`      // X display, empty = $DISPLAY
	ScaleFactor float64 `toml:"scale_factor"` // 0 = auto-detect
}

// DisplayConfig contains defaults for new displays.
type DisplayConfig struct {
	TrackInterval Duration `toml:"track_interval"` // Region poll interval
	MoveDebounce  Duration `toml:"move_debounce"`  // Style-block quiet period
	PaddingSize   int      `toml:"padding_size"`   // Letterbox padding in pixels
	PaddingColor  string   `toml:"padding_color"`  // "#rrggbb"
}

// SettingsConfig locates the persisted settings file.
type SettingsConfig struct {
	Path string `toml:"path"` // Empty = default under the config dir
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// DefaultDaemonConfig returns a new DaemonConfig with default values.
func DefaultDaemonConfig() *DaemonConfig {
	return &DaemonConfig{
		Engine: EngineConfig{
			Bus:            string(BusSession),
			Service:        DefaultEngineService,
			ObjectPath:     DefaultEnginePath,
			ConnectTimeout: Duration(5 * time.Second),
		},
		Control: ServiceConfig{
			Bus:     string(BusSession),
			Service: DefaultControlService,
		},
		Window: WindowConfig{
			Backend:     string(WindowBackendX11),
			Display:     "",
			ScaleFactor: 0,
		},
		Display: DisplayConfig{
			TrackInterval: Duration(100 * time.Millisecond),
			MoveDebounce:  Duration(500 * time.Millisecond),
			PaddingSize:   10,
			PaddingColor:  "#262626",
		},
		Settings: SettingsConfig{
			Path: "",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DaemonConfigPath returns the path to the daemon config file.
func DaemonConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "viewbridge", "viewbridged.toml"), nil
}

// LoadDaemonConfig loads the daemon configuration from disk. An empty
// path means the default location. If the file doesn't exist, returns
// the default configuration.
func LoadDaemonConfig(path string) (*DaemonConfig, error) {
	if path == "" {
		var err error
		path, err = DaemonConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultDaemonConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	config := DefaultDaemonConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveDaemonConfig saves the daemon configuration to disk.
func SaveDaemonConfig(config *DaemonConfig, path string) error {
	if path == "" {
		var err error
		path, err = DaemonConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *DaemonConfig) Validate() error {
	if err := validBus(c.Engine.Bus); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := validBus(c.Control.Bus); err != nil {
		return fmt.Errorf("control: %w", err)
	}
	if c.Engine.Service == "" || c.Engine.ObjectPath == "" {
		return fmt.Errorf("engine service and object_path must be set")
	}
	if c.Control.Service == "" {
		return fmt.Errorf("control service must be set")
	}

	validBackend := false
	for _, b := range ValidWindowBackends() {
		if c.Window.Backend == string(b) {
			validBackend = true
			break
		}
	}
	if !validBackend {
		return fmt.Errorf("invalid window backend %q, must be one of: %v", c.Window.Backend, ValidWindowBackends())
	}
	if c.Window.ScaleFactor != 0 && (c.Window.ScaleFactor < 0.5 || c.Window.ScaleFactor > 4) {
		return fmt.Errorf("scale_factor must be 0 (auto) or between 0.5 and 4, got %v", c.Window.ScaleFactor)
	}

	if d := c.Display.TrackInterval.Duration(); d < 10*time.Millisecond || d > 10*time.Second {
		return fmt.Errorf("track_interval must be between 10ms and 10s, got %v", d)
	}
	if d := c.Display.MoveDebounce.Duration(); d < 50*time.Millisecond || d > 10*time.Second {
		return fmt.Errorf("move_debounce must be between 50ms and 10s, got %v", d)
	}
	if c.Display.PaddingSize < 0 || c.Display.PaddingSize > 512 {
		return fmt.Errorf("padding_size must be between 0 and 512, got %d", c.Display.PaddingSize)
	}
	if _, err := engine.ParseColor(c.Display.PaddingColor); err != nil {
		return fmt.Errorf("padding_color: %w", err)
	}

	validLevel := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevel[c.Log.Level] {
		return fmt.Errorf("invalid log level %q, must be debug, info, warn or error", c.Log.Level)
	}

	return nil
}

// PaddingColor returns the parsed padding color. Call Validate first;
// an unparseable value falls back to the default.
func (c *DaemonConfig) PaddingColor() engine.Color {
	color, err := engine.ParseColor(c.Display.PaddingColor)
	if err != nil {
		def := DefaultDaemonConfig()
		color, _ = engine.ParseColor(def.Display.PaddingColor)
	}
	return color
}

// LogLevel returns the configured log level as a slog.Level.
// Unknown values fall back to info.
func (c *DaemonConfig) LogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func validBus(bus string) error {
	for _, b := range ValidBuses() {
		if bus == string(b) {
			return nil
		}
	}
	return fmt.Errorf("invalid bus %q, must be one of: %v", bus, ValidBuses())
}
