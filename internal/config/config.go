// Package config loads nudoq settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings
const (
	EnvDBPath    = "NUDOQ_DB_PATH"
	EnvWorkers   = "NUDOQ_WORKERS"
	EnvLogLevel  = "NUDOQ_LOG_LEVEL"
	EnvCacheSize = "NUDOQ_CACHE_SIZE"
	EnvMetadata  = "NUDOQ_METADATA"
)

const (
	DefaultCacheSize = 128
	DefaultBatchSize = 20
	DefaultLogLevel  = "info"
)

// Config holds the settings shared by every command
type Config struct {
	DBPath    string `yaml:"db_path" validate:"required"`
	Metadata  string `yaml:"metadata"` // metadata index file, optional
	Workers   int    `yaml:"workers" validate:"gte=1,lte=1024"`
	BatchSize int    `yaml:"batch_size" validate:"gte=1,lte=10000"`
	CacheSize int    `yaml:"cache_size" validate:"gte=0"`
	LogLevel  string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Dir returns the per-user nudoq directory
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nudoq"
	}
	return filepath.Join(home, ".nudoq")
}

// DefaultPath is where Load looks when no file is given
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		DBPath:    filepath.Join(Dir(), "nudoq.db"),
		Workers:   runtime.NumCPU(),
		BatchSize: DefaultBatchSize,
		CacheSize: DefaultCacheSize,
		LogLevel:  DefaultLogLevel,
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path reads DefaultPath when it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := getenv(EnvMetadata); v != "" {
		c.Metadata = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, v, err)
		}
		c.Workers = n
	}
	if v := getenv(EnvCacheSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvCacheSize, v, err)
		}
		c.CacheSize = n
	}
	return nil
}

// Validate checks the settings and expands a leading ~ in paths
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %s", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	c.DBPath = expandHome(c.DBPath)
	c.Metadata = expandHome(c.Metadata)
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
