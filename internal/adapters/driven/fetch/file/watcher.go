package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/valuesref/internal/core/ports/driven"
	"github.com/custodia-labs/valuesref/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.SchemaWatcher = (*Watcher)(nil)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reports changes to a single schema file.
type Watcher struct {
	debounce time.Duration
}

// NewWatcher creates a watcher. debounce of zero or less means
// DefaultDebounce.
func NewWatcher(debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{debounce: debounce}
}

// Watch signals on the returned channel after path changes. The channel
// is closed when ctx is done.
//
// The parent directory is watched rather than the file, so saves that
// replace the file through a rename are still seen.
func (w *Watcher) Watch(ctx context.Context, path string) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	out := make(chan struct{}, 1)
	go w.loop(ctx, fw, abs, out)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, path string, out chan<- struct{}) {
	defer close(out)
	defer fw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !handleEvent(event, path) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error for %s: %v", path, err)
		case <-fire:
			fire = nil
			logger.Debug("Schema file changed: %s", path)
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}

// handleEvent reports whether event changes the watched file's content.
func handleEvent(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}
