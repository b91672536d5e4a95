package persist

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	X      float32 `yaml:"x"`
	Y      float32 `yaml:"y"`
	Docked string  `yaml:"docked,omitempty"`
}

func TestStores(t *testing.T) {
	dir := t.TempDir()
	file, err := OpenFile(filepath.Join(dir, "state", "windows.yaml"))
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   file,
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			var got record
			ok, err := s.Get("missing", &got)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set("window:a", record{X: 10, Y: -4.5}))
			ok, err = s.Get("window:a", &got)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, record{X: 10, Y: -4.5}, got)

			require.NoError(t, s.Delete("window:a"))
			ok, _ = s.Get("window:a", &got)
			assert.False(t, ok)
		})
	}
}

func TestFileStoreReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "windows.yaml")
	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set("window:b", record{X: 1, Y: 2, Docked: "left"}))

	again, err := OpenFile(path)
	require.NoError(t, err)
	var got record
	ok, err := again.Get("window:b", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "left", got.Docked)
	assert.Equal(t, float32(2), got.Y)
}

func TestFileStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set("k", []int{1}))

	var got record
	ok, err := f.Get("k", &got)
	assert.True(t, ok)
	assert.Error(t, err)
}

func TestMemoryStoreKeys(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.Set("b", 1))
	require.NoError(t, m.Set("a", 2))
	assert.Equal(t, []string{"a", "b"}, m.Keys())
}
