package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Digest taken from the reference filter used against the live API.
func TestMD5Hex(t *testing.T) {
	filter := "\ndueBefore:Today\nAND NOT status:completed\nAND NOT list:Taschengeld\n"
	assert.Equal(t, "85d7cb53077789572349a3aabf8eb369", MD5Hex(filter))
}

func TestTaskKeyNormalizesWhitespace(t *testing.T) {
	a := TaskKey("dueBefore:Today AND NOT status:completed")
	b := TaskKey("dueBefore:Today\n\tAND   NOT status:completed")
	assert.Equal(t, a, b)
	assert.Equal(t, "tasks-"+MD5Hex("dueBefore:Today AND NOT status:completed"), a)

	assert.NotEqual(t, a, TaskKey("dueBefore:Today"))
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	payload := []byte(`[{"id": "1"}]`)
	require.NoError(t, store.Put("lists", payload))

	got, hit, err := store.Get("lists", time.Hour)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, payload, got)
}

func TestStoreMissWhenAbsent(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, hit, err := store.Get("lists", time.Hour)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestStoreMissWhenStale(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Put("lists", []byte("[]")))

	// Age the entry past the freshness window.
	old := time.Now().Add(-10 * time.Minute)
	require.NoError(t, os.Chtimes(filepath.Join(store.Dir, "lists.json"), old, old))

	_, hit, err := store.Get("lists", 5*time.Minute)
	require.NoError(t, err)
	assert.False(t, hit)

	// A longer window still accepts it.
	_, hit, err = store.Get("lists", time.Hour)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestStorePurge(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put("lists", []byte("[]")))
	require.NoError(t, store.Put("tasks-abc", []byte("[]")))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(store.Dir, "tasks-abc.json"), old, old))

	require.NoError(t, store.Purge(time.Hour))

	assert.NoFileExists(t, filepath.Join(store.Dir, "tasks-abc.json"))
	assert.FileExists(t, filepath.Join(store.Dir, "lists.json"))
}
