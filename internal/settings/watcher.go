package settings

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a Store when its backing file changes on disk, so a
// running daemon picks up edits made by the CLI without a restart.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	onChange func()
	done     chan struct{}
}

// NewWatcher creates a watcher for the store's backing file. onChange,
// if non-nil, runs after each successful reload.
func NewWatcher(store *Store, logger *slog.Logger, onChange func()) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		store:    store,
		watcher:  fsWatcher,
		logger:   logger,
		onChange: onChange,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. Watch the directory containing the file, which
// is more reliable for editors and atomic-rename writers than watching
// the file itself.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.store.Path())
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch settings directory %s: %w", dir, err)
	}

	go w.watch()

	w.logger.Info("watching settings file", "path", w.store.Path())
	return nil
}

// Stop stops watching.
func (w *Watcher) Stop() {
	close(w.done)
	w.watcher.Close()
}

func (w *Watcher) watch() {
	filename := filepath.Base(w.store.Path())

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.logger.Debug("settings file changed, reloading", "event", event.Op.String())
				if err := w.store.Reload(); err != nil {
					w.logger.Error("failed to reload settings", "error", err)
					continue
				}
				if w.onChange != nil {
					w.onChange()
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("settings watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}
