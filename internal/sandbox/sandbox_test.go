package sandbox_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/proglv/evalworker/internal/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_CreatesUniqueDirectories(t *testing.T) {
	root := t.TempDir()
	mgr, err := sandbox.New(root)
	require.NoError(t, err)

	dir1, err := mgr.Acquire()
	require.NoError(t, err)
	dir2, err := mgr.Acquire()
	require.NoError(t, err)

	assert.NotEqual(t, dir1, dir2)
	assert.DirExists(t, dir1)
	assert.DirExists(t, dir2)
	assert.Equal(t, 2, mgr.ActiveCount())
}

func TestRelease_RemovesDirectory(t *testing.T) {
	root := t.TempDir()
	mgr, err := sandbox.New(root)
	require.NoError(t, err)

	dir, err := mgr.Acquire()
	require.NoError(t, err)

	require.NoError(t, mgr.Release(dir))
	assert.NoDirExists(t, dir)
	assert.Equal(t, 0, mgr.ActiveCount())
}

func TestNew_CreatesRootIfMissing(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "root")
	_, err := sandbox.New(root)
	require.NoError(t, err)
	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
