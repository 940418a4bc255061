package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.hcl", "a.yaml", "sub/c.hcl", "sub/skip.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}

	t.Run("walks directories in lexical order", func(t *testing.T) {
		files, err := FindFiles([]string{dir}, ".hcl", ".yaml")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.yaml"),
			filepath.Join(dir, "b.hcl"),
			filepath.Join(dir, "sub", "c.hcl"),
		}, files)
	})

	t.Run("reports each file once", func(t *testing.T) {
		explicit := filepath.Join(dir, "sub", "c.hcl")
		files, err := FindFiles([]string{explicit, dir}, ".hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{explicit, filepath.Join(dir, "b.hcl")}, files)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := FindFiles([]string{filepath.Join(dir, "nope")}, ".hcl")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("explicit file with unsupported extension", func(t *testing.T) {
		_, err := FindFiles([]string{filepath.Join(dir, "sub", "skip.txt")}, ".hcl")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported file")
	})
}
