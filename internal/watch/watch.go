// Package watch re-runs distillation when watched source files change.
// Events are debounced so a burst of saves triggers a single run.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change batch fires.
const DefaultDebounce = 500 * time.Millisecond

// Watcher observes a directory tree and invokes a callback with the batch
// of changed files after each quiet period.
type Watcher struct {
	watcher    *fsnotify.Watcher
	root       string
	extensions map[string]bool
	debounce   time.Duration
	logger     *slog.Logger

	callback func(files []string)
	cancel   context.CancelFunc
	doneCh   chan struct{}
	stopOnce sync.Once

	mu            sync.Mutex
	accumulated   map[string]bool
	debounceTimer *time.Timer
}

// New creates a watcher over root. Only files whose extension appears in
// extensions produce events.
func New(root string, extensions []string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	extMap := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extMap[strings.ToLower(ext)] = true
	}

	w := &Watcher{
		watcher:     fsw,
		root:        root,
		extensions:  extMap,
		debounce:    DefaultDebounce,
		logger:      logger,
		accumulated: make(map[string]bool),
		doneCh:      make(chan struct{}),
	}

	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Start begins watching. The callback receives absolute paths of files
// changed since the last batch.
func (w *Watcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}
	w.callback = callback

	ctx, w.cancel = context.WithCancel(ctx)
	go w.loop(ctx)
	return nil
}

// Stop shuts the watcher down. Safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		} else {
			close(w.doneCh)
		}
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)

	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// New directories join the watch set.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if !w.relevant(event) {
				continue
			}
			w.mu.Lock()
			w.accumulated[event.Name] = true
			w.resetTimerLocked(fire)
			w.mu.Unlock()

		case <-fire:
			w.flush()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// flush hands the accumulated batch to the callback.
func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.accumulated) == 0 {
		w.mu.Unlock()
		return
	}
	files := make([]string, 0, len(w.accumulated))
	for file := range w.accumulated {
		files = append(files, file)
	}
	w.accumulated = make(map[string]bool)
	w.mu.Unlock()

	w.callback(files)
}

func (w *Watcher) resetTimerLocked(fire chan struct{}) {
	if w.debounceTimer != nil {
		if !w.debounceTimer.Stop() {
			select {
			case <-w.debounceTimer.C:
			default:
			}
		}
	}
	w.debounceTimer = time.AfterFunc(w.debounce, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return w.extensions[strings.ToLower(filepath.Ext(event.Name))]
}

// addTree registers every directory under root, skipping hidden and
// dependency directories.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.logger.Warn("error accessing path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || name == "node_modules" || name == "vendor") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}
