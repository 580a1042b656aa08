package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MAFIATUI_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "ws://localhost:8081", cfg.Server.URL)
	require.Equal(t, 5*time.Second, cfg.Server.HandshakeTimeout)
	require.Equal(t, "en-US", cfg.UI.Locale)
	require.Equal(t, 100, cfg.UI.MobileWidth)
	require.Equal(t, 3, cfg.UI.StartPhaseScreenSeconds)
	require.Equal(t, time.Second, cfg.UI.Tick)
	require.Equal(t, filepath.Join(home, ".local", "share", "mafiatui", "mafiatui.db"), cfg.Database.Path)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
url = "ws://game.example:9000"

[ui]
locale = "es-ES"
mobile_width = 80
tick = "250ms"
`), 0o600))
	t.Setenv("HOME", dir)
	t.Setenv("MAFIATUI_CONFIG", path)
	t.Setenv("MAFIATUI_UI_MOBILE_WIDTH", "60")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "ws://game.example:9000", cfg.Server.URL)
	require.Equal(t, "es-ES", cfg.UI.Locale)
	require.Equal(t, 60, cfg.UI.MobileWidth)
	require.Equal(t, 250*time.Millisecond, cfg.UI.Tick)
}

func TestLoadMissingExplicitFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("MAFIATUI_CONFIG", filepath.Join(dir, "absent.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "en-US", cfg.UI.Locale)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	t.Setenv("HOME", dir)
	t.Setenv("MAFIATUI_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.UI.Locale = "es-ES"
	cfg.Server.URL = "ws://saved:1"
	require.NoError(t, Save(cfg))

	again, err := Load()
	require.NoError(t, err)
	require.Equal(t, "es-ES", again.UI.Locale)
	require.Equal(t, "ws://saved:1", again.Server.URL)
	require.Equal(t, cfg.UI.Tick, again.UI.Tick)
}
