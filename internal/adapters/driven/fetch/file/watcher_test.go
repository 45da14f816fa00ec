package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleEvent(t *testing.T) {
	path := filepath.Join(string(filepath.Separator), "tmp", "values.schema.json")

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: path, Op: fsnotify.Rename}, true},
		{"remove", fsnotify.Event{Name: path, Op: fsnotify.Remove}, true},
		{"write and chmod", fsnotify.Event{Name: path, Op: fsnotify.Write | fsnotify.Chmod}, true},
		{"chmod only", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"sibling file", fsnotify.Event{Name: filepath.Join(filepath.Dir(path), "other.json"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, handleEvent(tt.event, path))
		})
	}
}

func TestWatcher_SignalsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "values.schema.json")
	writeFile(t, path, `{}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := NewWatcher(20*time.Millisecond).Watch(ctx, path)
	require.NoError(t, err)

	// Unrelated files in the directory are ignored.
	writeFile(t, filepath.Join(dir, "README.md"), "x")
	select {
	case <-changes:
		t.Fatal("unexpected signal for sibling file")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte(`{"type":"object"}`), 0o644))
	select {
	case _, ok := <-changes:
		assert.True(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("no change signal")
	}

	cancel()
	select {
	case _, ok := <-changes:
		for ok {
			_, ok = <-changes
		}
	case <-time.After(3 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(0).Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "values.json"))
	assert.Error(t, err)
}
