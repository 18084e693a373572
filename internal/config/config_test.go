package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, "/api/calendar/events", cfg.API.EventsPath)
	assert.Equal(t, "login", cfg.UI.StartTab)
	assert.True(t, cfg.Browser.Open)
	assert.Empty(t, cfg.Session.Token)

	_, err = os.Stat(filepath.Join(dir, "config.toml"))
	assert.NoError(t, err, "default config file should be written")
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[api]
base_url = "https://calendar.example.com"
events_path = "/v2/events"

[ui]
start_tab = "calendar"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	cfg, err := Load(New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "https://calendar.example.com", cfg.API.BaseURL)
	assert.Equal(t, "/v2/events", cfg.API.EventsPath)
	assert.Equal(t, "/api/test/health", cfg.API.HealthPath, "unset keys keep defaults")
	assert.Equal(t, "calendar", cfg.UI.StartTab)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("CALAGG_API_BASE_URL", "http://backend.internal:9000")
	t.Setenv("CALAGG_SESSION_TOKEN", "env-token")

	cfg, err := Load(New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://backend.internal:9000", cfg.API.BaseURL)
	assert.Equal(t, "env-token", cfg.Session.Token)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	content := `
[api]
base_url = "ftp://calendar.example.com"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	_, err := Load(New(), dir)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "api.base_url", cfgErr.Field)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		field   string
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "empty base url", mutate: func(c *Config) { c.API.BaseURL = "" }, field: "api.base_url", wantErr: true},
		{name: "no host", mutate: func(c *Config) { c.API.BaseURL = "http://" }, field: "api.base_url", wantErr: true},
		{name: "query on base url", mutate: func(c *Config) { c.API.BaseURL = "http://x?y=1" }, field: "api.base_url", wantErr: true},
		{name: "relative events path", mutate: func(c *Config) { c.API.EventsPath = "events" }, field: "api.events_path", wantErr: true},
		{name: "empty health path", mutate: func(c *Config) { c.API.HealthPath = "" }, field: "api.health_path", wantErr: true},
		{name: "unknown tab", mutate: func(c *Config) { c.UI.StartTab = "settings" }, field: "ui.start_tab", wantErr: true},
		{name: "calendar tab", mutate: func(c *Config) { c.UI.StartTab = "calendar" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
