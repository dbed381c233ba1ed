// Package watch monitors directories for freshly written capture files.
// The recorder writes a capture incrementally during the fight and renames
// or closes it at the end, so new files are debounced until they settle.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/evtcflow/evtcflow/pkg/container"
)

// Watcher monitors directories and reports settled capture files.
type Watcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.RWMutex
	seen     map[string]*fileState
	debounce time.Duration

	// OnLog is called with the path of a settled capture file.
	OnLog func(path string) error
	// OnError is called for watch and callback errors. The path may be
	// empty for watcher-level errors.
	OnError func(path string, err error)
}

type fileState struct {
	lastModified time.Time
	size         int64
	processing   bool
}

// NewWatcher creates a new directory watcher. A zero debounce uses a
// default that comfortably covers the recorder's write pattern.
func NewWatcher(debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: creating watcher: %w", err)
	}
	if debounce == 0 {
		debounce = 2 * time.Second
	}
	return &Watcher{
		watcher:  fsWatcher,
		seen:     make(map[string]*fileState),
		debounce: debounce,
	}, nil
}

// Watch adds a directory and its subdirectories to the watch set.
func (w *Watcher) Watch(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("watch: resolving path: %w", err)
	}
	return filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch: adding %s: %w", path, err)
		}
		return nil
	})
}

// Run starts the watch loop. Blocks until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	timers := make(map[string]*time.Timer)
	var timerMu sync.Mutex

	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// New subdirectories join the watch set.
			if stat, err := os.Stat(event.Name); err == nil && stat.IsDir() {
				if event.Op&fsnotify.Create != 0 {
					_ = w.watcher.Add(event.Name)
				}
				continue
			}
			if !container.IsLogFile(event.Name) {
				continue
			}

			path := event.Name
			timerMu.Lock()
			if timer, exists := timers[path]; exists {
				timer.Stop()
			}
			timers[path] = time.AfterFunc(w.debounce, func() {
				w.handleSettled(path)
			})
			timerMu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.OnError != nil {
				w.OnError("", err)
			}
		}
	}
}

// handleSettled fires the callback for a file that stopped changing during
// the debounce window. Files that grew again are deferred to their next
// event.
func (w *Watcher) handleSettled(path string) {
	w.mu.Lock()
	state, known := w.seen[path]
	if !known {
		state = &fileState{}
		w.seen[path] = state
	}
	if state.processing {
		w.mu.Unlock()
		return
	}
	state.processing = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		state.processing = false
		w.mu.Unlock()
	}()

	stat, err := os.Stat(path)
	if err != nil {
		if w.OnError != nil {
			w.OnError(path, err)
		}
		return
	}
	if known && stat.ModTime().Equal(state.lastModified) && stat.Size() == state.size {
		return
	}

	w.mu.Lock()
	state.lastModified = stat.ModTime()
	state.size = stat.Size()
	w.mu.Unlock()

	if w.OnLog != nil {
		if err := w.OnLog(path); err != nil && w.OnError != nil {
			w.OnError(path, err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
