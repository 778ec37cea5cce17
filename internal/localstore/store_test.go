package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	_, ok := s.Get("anything")
	assert.False(t, ok)
}

func TestSetGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("guest-mode-flag", "true"))

	// Reopen from disk to verify durability.
	s2, err := Open(path)
	require.NoError(t, err)

	v, ok := s2.Get("guest-mode-flag")
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestDeleteIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("k", "v"))

	require.NoError(t, s.Delete("k", "absent"))
	require.NoError(t, s.Delete("k"))

	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestOpenCorruptedFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := Open(path)
	require.NoError(t, err)

	_, ok := s.Get("k")
	assert.False(t, ok)

	// A fresh write replaces the corrupted file.
	require.NoError(t, s.Set("k", "v"))
	s2, err := Open(path)
	require.NoError(t, err)
	v, ok := s2.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
