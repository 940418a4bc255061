package app

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vk/sdfsched/internal/ctxlog"
)

// debounceDelay waits for file events to settle before rescheduling.
const debounceDelay = 250 * time.Millisecond

// watch schedules once and then again after every change to a graph file,
// until ctx is cancelled. Failed runs are logged and do not end the loop.
func (a *App) watch(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create graph watcher: %w", err)
	}
	defer w.Close()

	for _, path := range a.config.GraphPaths {
		if err := addWatches(w, path); err != nil {
			return fmt.Errorf("failed to watch %q: %w", path, err)
		}
	}
	logger.Info("Watching graph files for changes.", "dirs", len(w.WatchList()))

	a.runLogged(ctx)

	debounce := time.NewTimer(debounceDelay)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 || !a.watched(ev.Name) {
				continue
			}
			logger.Debug("Graph file changed.", "file", ev.Name, "op", ev.Op.String())
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addWatches(w, ev.Name)
				}
			}
			debounce.Reset(debounceDelay)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("Graph watcher failed.", "error", err)

		case <-debounce.C:
			a.runLogged(ctx)

		case <-ctx.Done():
			logger.Info("Watch mode stopped.")
			return nil
		}
	}
}

func (a *App) runLogged(ctx context.Context) {
	if _, err := a.RunOnce(ctx); err != nil {
		ctxlog.FromContext(ctx).Error("Scheduling run failed.", "error", err)
	}
}

// watched reports whether a changed file may affect the loaded graphs.
// Directories and files of supported types qualify; when the loader does
// not report its extensions every file does.
func (a *App) watched(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	l, ok := a.loader.(interface{ Extensions() []string })
	if !ok {
		return true
	}
	ext := strings.ToLower(filepath.Ext(base))
	return ext == "" || slices.Contains(l.Extensions(), ext)
}

// addWatches watches every directory below path, or the parent directory
// when path is a file.
func addWatches(w *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}
