package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, 92, cfg.Render.Quality)
	assert.Equal(t, 3.0, cfg.Render.Oversample)
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[storage]
backend = "SQLite"
sqlite_dsn = "file:strips.db"

[render]
quality = 80

[server]
cors_origins = ["http://localhost:3000"]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "file:strips.db", cfg.Storage.SQLite)
	assert.Equal(t, 80, cfg.Render.Quality)
	assert.Equal(t, 3, cfg.Render.Copies, "unset keys keep defaults")
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		"PHOTOSTRIP_STORAGE_BACKEND": "redis",
		"PHOTOSTRIP_REDIS_ADDR":      "cache:6379",
		"PHOTOSTRIP_QUALITY":         "70",
		"PHOTOSTRIP_OVERSAMPLE":      "2",
		"PHOTOSTRIP_CORS_ORIGINS":    "a.test, b.test,",
	}
	cfg := Default()
	require.NoError(t, cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))
	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, "cache:6379", cfg.Storage.Redis)
	assert.Equal(t, 70, cfg.Render.Quality)
	assert.Equal(t, 2.0, cfg.Render.Oversample)
	assert.Equal(t, []string{"a.test", "b.test"}, cfg.Server.CORSOrigins)
}

func TestEnvBadNumber(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		if k == "PHOTOSTRIP_COPIES" {
			return "many", true
		}
		return "", false
	})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.Storage.Backend = "postgres" }},
		{"oversample", func(c *Config) { c.Render.Oversample = 0 }},
		{"oversample too large", func(c *Config) { c.Render.Oversample = 100 }},
		{"copies too many", func(c *Config) { c.Render.Copies = 50 }},
		{"quality", func(c *Config) { c.Render.Quality = 101 }},
		{"copies", func(c *Config) { c.Render.Copies = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() = nil, want error")
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Encode(&buf))
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Render, cfg.Render)
}
