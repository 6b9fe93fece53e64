package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o600))
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.hcl"))
	touch(t, filepath.Join(dir, "nested", "a.hcl"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "x.hcl.bak"))

	files, err := Collect([]string{
		dir,
		filepath.Join(dir, "b.hcl"),
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "missing"),
	}, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "b.hcl"),
		filepath.Join(dir, "nested", "a.hcl"),
	}, files)

	assert.Panics(t, func() { _, _ = Collect([]string{dir}, "") })
}
