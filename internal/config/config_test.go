package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NAEHBUCH_DATA_DIR", "NAEHBUCH_BACKEND", "NAEHBUCH_SQLITE_PATH", "DATABASE_URL",
		"NAEHBUCH_JSON_PATH", "NAEHBUCH_THEME", "NAEHBUCH_NOTIFY", "NAEHBUCH_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("NAEHBUCH_DATA_DIR", dir)

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, filepath.Join(dir, "naehbuch.db"), cfg.SQLitePath)
	assert.Equal(t, filepath.Join(dir, "sewingProjects.json"), cfg.JSONPath)
	assert.Equal(t, "nord", cfg.Theme)
	assert.True(t, cfg.NotificationsEnabled())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "prefs.yaml"), cfg.PrefsPath())
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: `+dir+`
backend: json
theme: dracula
notifications: false
`), 0o644))
	t.Setenv("NAEHBUCH_THEME", "gruvbox")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendJSON, cfg.Backend)
	assert.Equal(t, "gruvbox", cfg.Theme)
	assert.False(t, cfg.NotificationsEnabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite", Config{Backend: BackendSQLite}, false},
		{"json", Config{Backend: BackendJSON}, false},
		{"postgres with url", Config{Backend: BackendPostgres, DatabaseURL: "postgres://localhost/db"}, false},
		{"postgres without url", Config{Backend: BackendPostgres}, true},
		{"unknown", Config{Backend: "mongo"}, true},
		{"bad notify flag", Config{Backend: BackendSQLite, Notify: "sometimes"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
