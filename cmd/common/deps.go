// Package common provides shared wiring for command implementations.
package common

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/naijapulse/internal/config"
	"github.com/jonesrussell/naijapulse/internal/logger"
	"github.com/jonesrussell/naijapulse/internal/store"
)

// Dependency errors.
var (
	ErrLoggerRequired = errors.New("logger is required")
	ErrConfigRequired = errors.New("config is required")
	ErrStoreRequired  = errors.New("store is required")
)

// CommandDeps holds common dependencies for all commands.
// Use this instead of context.Value for type-safe dependency injection.
type CommandDeps struct {
	Logger logger.Interface
	Config *config.Config
	Store  *store.Store
}

// Validate ensures all required dependencies are present.
func (d CommandDeps) Validate() error {
	if d.Logger == nil {
		return ErrLoggerRequired
	}
	if d.Config == nil {
		return ErrConfigRequired
	}
	if d.Store == nil {
		return ErrStoreRequired
	}
	return nil
}

// Close releases held resources.
func (d CommandDeps) Close() error {
	if d.Store == nil {
		return nil
	}
	return d.Store.Close()
}

// NewCommandDeps loads configuration, builds the logger, and connects the
// store. The config file path comes from the root --config flag.
func NewCommandDeps(cmd *cobra.Command) (*CommandDeps, error) {
	cfgFile, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		cfgFile = ""
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.App.Environment == "development" {
		cfg.Logger.Development = true
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	st, err := store.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	deps := &CommandDeps{
		Logger: log,
		Config: cfg,
		Store:  st,
	}
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	return deps, nil
}
