package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadProviders(t *testing.T) {
	t.Setenv("FX_KEY", "s3cret")
	path := writeFile(t, `
providers:
  - name: primary
    priority: 1
    baseUrl: https://fx.example.com/latest
    apiKey: ${FX_KEY}
  - name: backup
    priority: 5
    baseUrl: https://backup.example.com/latest
`)

	providers, err := LoadProviders(path)
	require.NoError(t, err)
	require.Len(t, providers, 2)
	assert.Equal(t, "primary", providers[0].Name)
	assert.Equal(t, 1, providers[0].Priority)
	assert.Equal(t, "s3cret", providers[0].APIKey)
	assert.Equal(t, "https://backup.example.com/latest", providers[1].BaseURL)
}

func TestLoadProviders_Invalid(t *testing.T) {
	providers, err := LoadProviders("")
	assert.NoError(t, err)
	assert.Nil(t, providers)

	_, err = LoadProviders(writeFile(t, "providers:\n  - priority: 1\n"))
	assert.ErrorContains(t, err, "name and baseUrl are required")

	_, err = LoadProviders(writeFile(t, "providers: [unclosed"))
	assert.Error(t, err)
}
