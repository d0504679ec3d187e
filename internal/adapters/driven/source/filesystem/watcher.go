package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes a directory tree and reports loadable files that
// are created or modified, so new papers can be indexed as they land.
type Watcher struct {
	watcher  *fsnotify.Watcher
	rootPath string
}

// NewWatcher creates a watcher over the given root directory. All
// existing subdirectories are registered; directories created later
// are picked up from create events.
func NewWatcher(rootPath string) (*Watcher, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("filesystem: stat watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("filesystem: watch root %s is not a directory", rootPath)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("filesystem: create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fsw,
		rootPath: rootPath,
	}

	if err := w.addRecursive(rootPath); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Watch blocks until ctx is cancelled, invoking onChange with the path
// of every loadable file that is created or written. Hidden files and
// directories are ignored.
func (w *Watcher) Watch(ctx context.Context, onChange func(path string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event, onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("filesystem: watch error: %w", err)
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// handleEvent filters raw fsnotify events down to loadable-file
// changes. New directories are added to the watch set.
func (w *Watcher) handleEvent(event fsnotify.Event, onChange func(path string)) {
	if isHidden(event.Name) {
		return
	}

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			// Best effort; a vanished directory is not an error.
			_ = w.addRecursive(event.Name)
			return
		}
	}

	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	if !Loadable(event.Name) {
		return
	}
	onChange(event.Name)
}

// addRecursive registers a directory and all its subdirectories.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if isHidden(path) && path != root {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("filesystem: watch %s: %w", path, err)
		}
		return nil
	})
}

// isHidden reports whether any path element starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 1 && part[0] == '.' {
			return true
		}
	}
	return false
}
