// Package settings persists named string settings grouped into sections,
// the storage behind the video service's base resolution. Settings live
// in a single TOML file; writes are atomic and external edits can be
// observed through the Watcher.
package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// ErrClosed is returned for operations on a closed store.
var ErrClosed = errors.New("settings store closed")

// Store is a thread-safe section/key string store backed by one TOML
// file. A missing file reads as an empty store; the file is created on
// the first Set.
type Store struct {
	mu     sync.RWMutex
	path   string
	values map[string]map[string]string
	logger *slog.Logger
	closed bool
}

// Open loads the store at path. A missing file is not an error.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		path:   path,
		values: make(map[string]map[string]string),
		logger: logger,
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultPath returns the settings file under the user config directory.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "viewbridge", "settings.toml"), nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored under section/key.
func (s *Store) Get(section, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys, ok := s.values[section]
	if !ok {
		return "", false
	}
	v, ok := keys[key]
	return v, ok
}

// Set stores value under section/key and persists the file.
func (s *Store) Set(section, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	keys, ok := s.values[section]
	if !ok {
		keys = make(map[string]string)
		s.values[section] = keys
	}
	if keys[key] == value {
		return nil
	}
	keys[key] = value

	return s.saveLocked()
}

// Sections returns the section names in sorted order.
func (s *Store) Sections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reload re-reads the backing file, replacing in-memory state. Used by
// the Watcher when the file changes externally.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return s.loadLocked()
}

// Close marks the store closed. Pending readers finish; later Sets fail.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// loadLocked reads the TOML file into memory. Caller must hold the lock.
func (s *Store) loadLocked() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.values = make(map[string]map[string]string)
			return nil
		}
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	values := make(map[string]map[string]string)
	if err := toml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse settings file %s: %w", s.path, err)
	}
	s.values = values
	return nil
}

// saveLocked writes the TOML file atomically via temp file + rename.
// Caller must hold the lock.
func (s *Store) saveLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := toml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return os.Rename(tmpPath, s.path)
}
