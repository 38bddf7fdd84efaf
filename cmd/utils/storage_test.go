package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitStoragesLevelDB(t *testing.T) {
	home := t.TempDir()
	storage := NewStorage(home, "")

	require.NoError(t, storage.InitStorages("goleveldb", 1024))
	require.NoError(t, storage.StateDB().Set([]byte("k"), []byte("v")))
	require.NoError(t, storage.Close())
	assert.Nil(t, storage.StateDB())

	require.NoError(t, storage.InitStorages("goleveldb", 1024))
	value, err := storage.StateDB().Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
	require.NoError(t, storage.Close())
}

func TestInitStoragesClosesOpenedOnFailure(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "data", "events.db"), []byte("not a database"), 0o600))

	storage := NewStorage(home, "")
	require.Error(t, storage.InitStorages("goleveldb", 1024))
	assert.Nil(t, storage.StateDB())
	assert.Nil(t, storage.EventDB())
	assert.Nil(t, storage.AppDB())

	// state database lock must be released
	reopened, err := storage.InitStateLevelDB("data/state", nil)
	require.NoError(t, err)
	require.NoError(t, reopened.Close())
}

func TestGetDbOptsRejectsLowMemory(t *testing.T) {
	assert.Panics(t, func() { GetDbOpts(512) })
	assert.Equal(t, 1024, GetDbOpts(1024).OpenFilesCacheCapacity)
}
