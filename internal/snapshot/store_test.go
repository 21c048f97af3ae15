package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "last_positions.json"))

	state := store.Load()
	require.NotNil(t, state)
	assert.Empty(t, state)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_positions.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	state := NewStore(path).Load()
	require.NotNil(t, state)
	assert.Empty(t, state)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_positions.json")
	store := NewStore(path)

	in := map[string]float64{
		"0xaaa": 10.0,
		"0xbbb": 5.25,
	}
	require.NoError(t, store.Save(in))

	out := store.Load()
	assert.Equal(t, in, out)

	// save(load()) keeps the semantic content stable
	require.NoError(t, store.Save(out))
	assert.Equal(t, in, store.Load())
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_positions.json")
	store := NewStore(path)

	require.NoError(t, store.Save(map[string]float64{"0xaaa": 10.0}))
	require.NoError(t, store.Save(map[string]float64{"0xbbb": 3.0}))

	out := store.Load()
	assert.Equal(t, map[string]float64{"0xbbb": 3.0}, out)
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "last_positions.json")
	require.NoError(t, NewStore(path).Save(map[string]float64{"0xaaa": 1}))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
