package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Log.Level)
	require.False(t, cfg.RequireSignatures)
	require.NotEmpty(t, cfg.PluginsDir)
	require.NotEmpty(t, cfg.CacheDir)
}

func TestLoadExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "host.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host_version: \"1.2.3\"\nrequire_signatures: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "1.2.3", cfg.HostVersion)
	require.True(t, cfg.RequireSignatures)
}

func TestOptionsOverrideLoadedConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("", WithRegistry("https://plugins.example.com"), RequireSignatures(true), WithTrustedKey("ssh-ed25519 AAAA"))
	require.NoError(t, err)
	require.Equal(t, "https://plugins.example.com", cfg.RegistryURL)
	require.True(t, cfg.RequireSignatures)
	require.Equal(t, []string{"ssh-ed25519 AAAA"}, cfg.TrustedKeys)
}
