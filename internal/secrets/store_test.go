package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewTokenStore(dir)
	require.NoError(t, err)

	_, err = s.Fetch("ws://game.example:8081")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Store("ws://game.example:8081/", "tok-123"))
	got, err := s.Fetch("WSS://Game.Example:8081")
	require.NoError(t, err)
	require.Equal(t, "tok-123", got)

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	require.NoError(t, err)
	require.False(t, strings.Contains(string(data), "tok-123"))

	require.NoError(t, s.Delete("ws://game.example:8081"))
	_, err = s.Fetch("ws://game.example:8081")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestServerRequired(t *testing.T) {
	s, err := NewTokenStore(t.TempDir())
	require.NoError(t, err)
	require.Error(t, s.Store(" ", "x"))
	_, err = s.Fetch("")
	require.Error(t, err)
}
