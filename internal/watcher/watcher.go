// Package watcher triggers re-analysis when watched archives or class
// directories change. Events are debounced and rate limited so a rebuild
// that rewrites hundreds of class files produces one run, not hundreds.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"classlens/internal/observability"
	"classlens/internal/util"
)

type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	debounce   time.Duration
	limiter    *util.Limiter
	onChange   func([]string)
	callbackMu sync.Mutex

	// watchedFiles maps a watched archive file to true; events from the
	// parent directory are filtered against it.
	watchedFiles map[string]bool
	watchedDirs  []string

	pending   map[string]time.Time
	pendingMu sync.Mutex
	timer     *time.Timer
}

func NewWatcher(debounce time.Duration, limiter *util.Limiter, onChange func([]string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher:    fsw,
		debounce:     debounce,
		limiter:      limiter,
		onChange:     onChange,
		watchedFiles: make(map[string]bool),
		pending:      make(map[string]time.Time),
	}, nil
}

// Watch registers the given paths. An archive file is watched through its
// parent directory, which also survives editors and build tools that
// replace the file by rename. Directories are watched recursively.
func (w *Watcher) Watch(paths []string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := w.watchRecursive(path); err != nil {
				return err
			}
			continue
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		w.watchedFiles[abs] = true
		if err := w.fsWatcher.Add(filepath.Dir(abs)); err != nil {
			return err
		}
	}

	go w.run()
	return nil
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			w.watchedDirs = append(w.watchedDirs, path)
			return w.fsWatcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() && w.insideWatchedDir(event.Name) {
					if err := w.watchRecursive(event.Name); err != nil {
						slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
					} else {
						w.enqueueExistingFiles(event.Name)
					}
					continue
				}
			}

			if !w.relevant(event.Name) {
				continue
			}

			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create ||
				event.Op&fsnotify.Rename == fsnotify.Rename ||
				event.Op&fsnotify.Remove == fsnotify.Remove {
				observability.WatcherEventsTotal.Inc()
				w.scheduleChange(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

// relevant filters events down to the watched archives themselves and
// class files below a watched directory.
func (w *Watcher) relevant(path string) bool {
	if abs, err := filepath.Abs(path); err == nil && w.watchedFiles[abs] {
		return true
	}
	if !w.insideWatchedDir(path) {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".class", ".jar", ".war", ".zip":
		return true
	}
	return false
}

func (w *Watcher) insideWatchedDir(path string) bool {
	for _, dir := range w.watchedDirs {
		if rel, err := filepath.Rel(dir, path); err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = time.Now()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		w.flushChanges()
	})
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]time.Time)
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	if w.limiter != nil {
		if err := w.limiter.Wait(context.Background(), 1); err != nil {
			return
		}
	}

	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	w.onChange(paths)
}

func (w *Watcher) Close() error {
	if w.timer != nil {
		w.timer.Stop()
	}
	return w.fsWatcher.Close()
}

func (w *Watcher) enqueueExistingFiles(root string) {
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		if !w.relevant(path) {
			return nil
		}
		w.scheduleChange(path)
		return nil
	})
}
