package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/api", cfg.Server.BaseURL)
	assert.Equal(t, DefaultPageSize, cfg.Notifications.PageSize)
	assert.Equal(t, 500, cfg.Notifications.DebounceMs)
	assert.Equal(t, 120, cfg.Notifications.PollIntervalSec)
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  base_url: https://hostel.example.edu/api
notifications:
  page_size: 25
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://hostel.example.edu/api", cfg.Server.BaseURL)
	assert.Equal(t, 25, cfg.Notifications.PageSize)
	assert.Equal(t, 30, cfg.Server.TimeoutSec)
	assert.Equal(t, 500, cfg.Notifications.DebounceMs)
}

func TestLoadConfigClampsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
notifications:
  page_size: 0
  debounce_ms: -5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultPageSize, cfg.Notifications.PageSize)
	assert.Equal(t, 500, cfg.Notifications.DebounceMs)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	in := defaultAppConfig()
	in.Server.BaseURL = "https://dorm.example.org/api"
	in.Notifications.PageSize = 20
	require.NoError(t, SaveConfig(path, in))

	out, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, in.Server.BaseURL, out.Server.BaseURL)
	assert.Equal(t, 20, out.Notifications.PageSize)
}
