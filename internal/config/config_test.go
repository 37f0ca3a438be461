package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, filepath.Join(Dir(), "nudoq.db"), cfg.DBPath)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, 20, cfg.BatchSize)
	assert.Equal(t, 128, cfg.CacheSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nudoq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /tmp/x.db\nworkers: 3\nlog_level: debug\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 128, cfg.CacheSize, "unset keys keep defaults")
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("workers: [1"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("log_level: loud\n"), 0644))
	_, err = Load(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(env(map[string]string{
		EnvDBPath:    "/data/docs.db",
		EnvWorkers:   "2",
		EnvLogLevel:  "WARN",
		EnvCacheSize: "0",
		EnvMetadata:  "/data/index.yaml",
	}))
	require.NoError(t, err)

	assert.Equal(t, "/data/docs.db", cfg.DBPath)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 0, cfg.CacheSize)
	assert.Equal(t, "/data/index.yaml", cfg.Metadata)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"workers", map[string]string{EnvWorkers: "many"}},
		{"cache size", map[string]string{EnvCacheSize: "-x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Default().ApplyEnv(env(tt.vars)))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"zero batch", func(c *Config) { c.BatchSize = 0 }},
		{"negative cache", func(c *Config) { c.CacheSize = -1 }},
		{"unknown level", func(c *Config) { c.LogLevel = "trace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg := Default()
	cfg.DBPath = "~/docs/nudoq.db"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, filepath.Join(home, "docs", "nudoq.db"), cfg.DBPath)
}
