package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rescuefs/rescuer/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "rescued", cfg.OutputDir)
	require.Equal(t, "32MB", cfg.BlockSize)
	require.Equal(t, "all", cfg.Mode)
	require.Equal(t, "info", cfg.LogLevel)
	require.True(t, cfg.Deep)
	require.True(t, cfg.Report)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rescuer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output_dir: /mnt/recovery
mode: images
deep_validation: false
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "/mnt/recovery", cfg.OutputDir)
	require.Equal(t, "images", cfg.Mode)
	require.False(t, cfg.Deep)
	require.Equal(t, "rescued", cfg.Prefix) // untouched default
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rescuer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: images\n"), 0o644))
	t.Setenv("RESCUER_MODE", "videos")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "videos", cfg.Mode)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
