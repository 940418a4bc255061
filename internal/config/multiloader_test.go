package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLoader returns one graph per file, named after the file.
type recordingLoader struct {
	files []string
	err   error
}

func (l *recordingLoader) Load(_ context.Context, files ...string) (*Model, error) {
	if l.err != nil {
		return nil, l.err
	}
	m := &Model{}
	for _, f := range files {
		l.files = append(l.files, f)
		m.Graphs = append(m.Graphs, &Graph{Name: filepath.Base(f), Source: f})
	}
	return m, nil
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
}

func TestMultiLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.hcl", "b.yaml", "nested/c.YML", "notes.txt")

	hclLoader := &recordingLoader{}
	yamlLoader := &recordingLoader{}
	l := NewMultiLoader(map[string]Loader{".hcl": hclLoader, ".yaml": yamlLoader, ".yml": yamlLoader})
	assert.Equal(t, []string{".hcl", ".yaml", ".yml"}, l.Extensions())

	model, err := l.Load(context.Background(), dir)
	require.NoError(t, err)

	var names []string
	for _, g := range model.Graphs {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"a.hcl", "b.yaml", "c.YML"}, names)
	assert.Equal(t, []string{filepath.Join(dir, "a.hcl")}, hclLoader.files)
	assert.Len(t, yamlLoader.files, 2)
}

func TestMultiLoader_Load_Errors(t *testing.T) {
	t.Run("no supported files", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "readme.md")
		l := NewMultiLoader(map[string]Loader{".hcl": &recordingLoader{}})

		_, err := l.Load(context.Background(), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no graph files")
	})

	t.Run("loader failure", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "a.hcl")
		boom := errors.New("boom")
		l := NewMultiLoader(map[string]Loader{".hcl": &recordingLoader{err: boom}})

		_, err := l.Load(context.Background(), dir)
		assert.ErrorIs(t, err, boom)
	})
}
