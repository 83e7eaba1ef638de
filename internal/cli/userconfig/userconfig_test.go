package userconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	t.Setenv("FOLIO_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, &UserConfig{}, cfg)
}

func TestSet_RoundTripsThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	t.Setenv("FOLIO_CONFIG", path)

	require.NoError(t, Set(KeyAPIURL, "https://api.example.com/graphql"))
	require.NoError(t, Set(KeyOutput, "json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "api_url: https://api.example.com/graphql")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/graphql", cfg.APIURL)
	assert.Equal(t, "json", cfg.Output)
	assert.Empty(t, cfg.TokenStore)
}

func TestSet_UnknownKey(t *testing.T) {
	t.Setenv("FOLIO_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	err := Set("color", "blue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: [unterminated"), 0o600))
	t.Setenv("FOLIO_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}
