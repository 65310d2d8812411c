package settings

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")

	store, err := Open(path, testLogger())
	require.NoError(t, err)

	_, ok := store.Get("Video", "Base")
	assert.False(t, ok)
}

func TestSetGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")

	store, err := Open(path, testLogger())
	require.NoError(t, err)

	require.NoError(t, store.Set("Video", "Base", "1920x1080"))

	v, ok := store.Get("Video", "Base")
	require.True(t, ok)
	assert.Equal(t, "1920x1080", v)
}

func TestSetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")

	store, err := Open(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, store.Set("Video", "Base", "2560x1440"))

	reopened, err := Open(path, testLogger())
	require.NoError(t, err)

	v, ok := reopened.Get("Video", "Base")
	require.True(t, ok)
	assert.Equal(t, "2560x1440", v)
}

func TestReloadPicksUpExternalEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")

	store, err := Open(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, store.Set("Video", "Base", "1920x1080"))

	external := "[Video]\nBase = \"1280x720\"\n"
	require.NoError(t, os.WriteFile(path, []byte(external), 0600))

	require.NoError(t, store.Reload())

	v, ok := store.Get("Video", "Base")
	require.True(t, ok)
	assert.Equal(t, "1280x720", v)
}

func TestSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")

	store, err := Open(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, store.Set("Video", "Base", "1920x1080"))
	require.NoError(t, store.Set("Audio", "Device", "default"))

	assert.Equal(t, []string{"Audio", "Video"}, store.Sections())
}

func TestSetAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")

	store, err := Open(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Set("Video", "Base", "1920x1080"), ErrClosed)
}

func TestOpenMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("not valid toml ["), 0600))

	_, err := Open(path, testLogger())
	assert.Error(t, err)
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")

	store, err := Open(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, store.Set("Video", "Base", "1920x1080"))

	changed := make(chan struct{}, 1)
	watcher, err := NewWatcher(store, testLogger(), func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	external := "[Video]\nBase = \"3840x2160\"\n"
	require.NoError(t, os.WriteFile(path, []byte(external), 0600))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not observe settings change")
	}

	v, ok := store.Get("Video", "Base")
	require.True(t, ok)
	assert.Equal(t, "3840x2160", v)
}
