package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePartition struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	saved := samplePartition{Name: "chat", Count: 3}
	require.NoError(t, store.Save("sample", saved))

	var loaded samplePartition
	found, err := store.Load("sample", &loaded)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, saved, loaded)
}

func TestStore_LoadMissingPartition(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	var loaded samplePartition
	found, err := store.Load("never-saved", &loaded)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, samplePartition{}, loaded)
}

func TestStore_LoadCorruptPartition(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0600))

	var loaded samplePartition
	_, err = store.Load("bad", &loaded)
	assert.ErrorContains(t, err, "failed to parse partition")
}

func TestStore_SaveOverwritesWhole(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("sample", samplePartition{Name: "first", Count: 1}))
	require.NoError(t, store.Save("sample", samplePartition{Name: "second", Count: 2}))

	var loaded samplePartition
	found, err := store.Load("sample", &loaded)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "second", loaded.Name)
}

func TestStore_Delete(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("sample", samplePartition{Name: "x"}))
	require.NoError(t, store.Delete("sample"))

	var loaded samplePartition
	found, err := store.Load("sample", &loaded)
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting a missing partition is not an error.
	assert.NoError(t, store.Delete("sample"))
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	store, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNew_RejectsEmptyDir(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
