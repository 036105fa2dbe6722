package sessionfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarker_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	m, err := New(dir)
	require.NoError(t, err)

	id, err := m.Load()
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, m.Save("12345"))
	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "user_id:")

	id, err = m.Load()
	require.NoError(t, err)
	assert.Equal(t, "12345", id)

	require.NoError(t, m.Clear())
	require.NoError(t, m.Clear())
	id, err = m.Load()
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestMarker_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("user_id: [unterminated"), 0o600))

	m, err := New(dir)
	require.NoError(t, err)
	_, err = m.Load()
	assert.Error(t, err)
}
