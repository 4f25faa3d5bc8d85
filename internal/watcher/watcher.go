// Package watcher re-runs the analysis when the parser's declaration dump
// (or the config file) changes on disk. Events are debounced so one editor
// save does not trigger several runs.
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"crossbind/internal/shared/observability"
)

type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	targets   map[string]bool
	onChange  func([]string)

	pending   map[string]time.Time
	pendingMu sync.Mutex
	timer     *time.Timer
	done      chan struct{}
	closeOnce sync.Once
}

// NewWatcher watches the given files. onChange receives the batch of changed
// paths after the debounce window closes.
func NewWatcher(debounce time.Duration, files []string, onChange func([]string)) (*Watcher, error) {
	if onChange == nil {
		return nil, os.ErrInvalid
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsw,
		debounce:  debounce,
		targets:   make(map[string]bool, len(files)),
		onChange:  onChange,
		pending:   make(map[string]time.Time),
		done:      make(chan struct{}),
	}

	// Watch the containing directories: most editors replace files on
	// save, which drops inode-level watches.
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = fsw.Close()
			return nil, err
		}
		w.targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) Start() {
	go w.loop()
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.targets[abs] {
				continue
			}
			w.enqueue(abs)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) enqueue(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = time.Now()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]time.Time)
	w.pendingMu.Unlock()

	if len(paths) > 0 {
		w.onChange(paths)
	}
}
