// Package watcher observes the corpus directory and signals when its
// contents settle after a change, so the serving layer can rebuild and
// atomically swap in a fresh snapshot.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a directory tree recursively and emits one
// notification per quiet window of file activity.
type Watcher struct {
	root      string
	debouncer *Debouncer
	logger    *slog.Logger
}

// New creates a Watcher over root with the given debounce window.
func New(root string, debounce time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		root:      root,
		debouncer: NewDebouncer(debounce),
		logger:    logger,
	}
}

// Events returns the change notification channel. Each receive means
// the corpus changed and has been quiet for the debounce window.
func (w *Watcher) Events() <-chan struct{} {
	return w.debouncer.C()
}

// Start watches until the context is cancelled. New subdirectories are
// added to the watch as they appear.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer func() {
		_ = fsw.Close()
		w.debouncer.Stop()
	}()

	if err := addRecursive(fsw, w.root); err != nil {
		return err
	}

	w.logger.Info("watching corpus for changes",
		slog.String("root", w.root))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(fsw, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) handle(fsw *fsnotify.Watcher, event fsnotify.Event) {
	// Newly created directories must join the watch before their
	// contents produce events.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addRecursive(fsw, event.Name); err != nil {
				w.logger.Warn("failed to watch new directory",
					slog.String("path", event.Name),
					slog.String("error", err.Error()))
			}
			w.debouncer.Trigger()
			return
		}
	}

	if !relevant(event.Name) {
		return
	}

	w.logger.Debug("corpus file changed",
		slog.String("path", event.Name),
		slog.String("op", event.Op.String()))
	w.debouncer.Trigger()
}

// relevant reports whether a path can affect the loaded corpus:
// topic Markdown, category and export descriptors.
func relevant(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".yml", ".yaml":
		return true
	}
	return false
}

// addRecursive registers dir and every subdirectory with the watcher.
func addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
