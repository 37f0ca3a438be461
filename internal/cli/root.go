// Package cli provides the nudoq command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/devlooped/nudoq/internal/config"
	"github.com/devlooped/nudoq/internal/storage"
	"github.com/devlooped/nudoq/pkg/metadata"
)

// options are the persistent flags shared by every command
type options struct {
	configPath string
	dbPath     string
	logLevel   string
	metadata   string
}

// Execute creates and runs the root command.
func Execute(version string) error {
	return NewRootCommand(version).Execute()
}

// NewRootCommand builds the command tree
func NewRootCommand(version string) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "nudoq",
		Short:         "Read, index and serve API documentation files",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.nudoq/config.yaml)")
	flags.StringVar(&opts.dbPath, "db", "", "database path, overrides "+config.EnvDBPath)
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error, overrides "+config.EnvLogLevel)
	flags.StringVar(&opts.metadata, "metadata", "", "metadata index file (.yaml or .json), overrides "+config.EnvMetadata)

	rootCmd.AddCommand(
		newParseCommand(opts),
		newIndexCommand(opts),
		newServeCommand(opts),
		newVersionCommand(version),
	)
	return rootCmd
}

// load resolves the configuration; flags win over the file and environment
func (o *options) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.metadata != "" {
		cfg.Metadata = o.metadata
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds a logger writing to stderr; stdout is reserved for
// command output and the MCP protocol
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// loadIndex loads the metadata index, or returns nil when none is configured
func loadIndex(path string) (metadata.Index, error) {
	if path == "" {
		return nil, nil
	}
	index, err := metadata.Load(path)
	if err != nil {
		return nil, err
	}
	return index, nil
}

// openStorage opens the database, creating its directory
func openStorage(path string) (*storage.SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return storage.NewSQLiteStorage(path)
}
