package config

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vk/sdfsched/internal/ctxlog"
	"github.com/vk/sdfsched/internal/fsutil"
)

// MultiLoader dispatches graph files to format-specific loaders by file
// extension.
type MultiLoader struct {
	loaders map[string]Loader
}

// NewMultiLoader creates a loader from a map of extensions (including the
// leading dot) to loaders.
func NewMultiLoader(byExtension map[string]Loader) *MultiLoader {
	loaders := make(map[string]Loader, len(byExtension))
	for ext, l := range byExtension {
		loaders[strings.ToLower(ext)] = l
	}
	return &MultiLoader{loaders: loaders}
}

// Extensions returns the supported extensions in sorted order.
func (l *MultiLoader) Extensions() []string {
	exts := make([]string, 0, len(l.loaders))
	for ext := range l.loaders {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Load discovers all supported files below the given paths and merges the
// graphs they define, in discovery order.
func (l *MultiLoader) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFiles(paths, l.Extensions()...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no graph files (%s) found in %s", strings.Join(l.Extensions(), ", "), strings.Join(paths, ", "))
	}
	logger.Debug("Discovered graph files.", "count", len(files))

	model := &Model{}
	for _, file := range files {
		loader := l.loaders[strings.ToLower(filepath.Ext(file))]
		m, err := loader.Load(ctx, file)
		if err != nil {
			return nil, err
		}
		model.Merge(m)
	}
	logger.Debug("Graph files loaded.", "graphs", len(model.Graphs))
	return model, nil
}
