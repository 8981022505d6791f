package filelock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriteCreatesFileAndParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "artifact.patch")

	require.NoError(t, AtomicWrite(path, []byte("content")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestAtomicWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.patch")

	require.NoError(t, AtomicWrite(path, []byte("first")))
	require.NoError(t, AtomicWrite(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, AtomicWrite(filepath.Join(dir, "a.patch"), []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.patch", entries[0].Name())
}

func TestLockAndWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.patch")

	require.NoError(t, LockAndWrite(path, []byte("locked write")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "locked write", string(data))
}

func TestFileLockAcquireRelease(t *testing.T) {
	lock := NewFileLock(filepath.Join(t.TempDir(), "x.lock"))

	require.NoError(t, lock.Lock())
	require.NoError(t, lock.Unlock())
}
