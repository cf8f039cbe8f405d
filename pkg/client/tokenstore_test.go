package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenStore_RoundTrip(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "nested", "token"))

	tok, err := store.Load()
	require.NoError(t, err)
	require.Empty(t, tok)

	require.NoError(t, store.Save("tok123"))
	tok, err = store.Load()
	require.NoError(t, err)
	require.Equal(t, "tok123", tok)
}

func TestTokenStore_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := NewTokenStore(path)
	require.NoError(t, store.Save("tok123"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestTokenStore_ClearIsIdempotent(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, store.Save("tok123"))

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	tok, err := store.Load()
	require.NoError(t, err)
	require.Empty(t, tok)
}
