package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/histsync/internal/cli/config"
	"github.com/leapstack-labs/histsync/internal/cli/output"
	"github.com/leapstack-labs/histsync/internal/harvest"
	"github.com/leapstack-labs/histsync/internal/history"
	"github.com/leapstack-labs/histsync/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Store    *state.SQLiteStore
	Reader   *history.Reader
	Service  *harvest.Service
	Renderer *output.Renderer
}

// NewCommandContext opens the state database and wires the harvest service.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	store, err := openStore(cfg.StatePath, logger)
	if err != nil {
		return nil, nil, err
	}

	reader, err := historyReader(cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = store.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Store:    store,
		Reader:   reader,
		Service:  harvest.New(reader, store, logger),
		Renderer: newRenderer(cmd, cfg),
	}, cleanup, nil
}

// NewCommandContextWithoutStore creates a CommandContext without a database.
// Useful for commands that don't need state access.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: newRenderer(cmd, cfg),
	}
}

// getConfig returns the loaded configuration, or the defaults when the
// command runs without the root's pre-run hook.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

func newRenderer(cmd *cobra.Command, cfg *config.Config) *output.Renderer {
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
}

func historyReader(cfg *config.Config, logger *slog.Logger) (*history.Reader, error) {
	opts := cfg.ReaderOptions()
	opts.Logger = logger
	return history.NewReader(opts)
}

// openStore opens and migrates the state database, creating its directory.
func openStore(path string, logger *slog.Logger) (*state.SQLiteStore, error) {
	if !strings.HasPrefix(path, ":memory:") {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}

	store := state.NewSQLiteStore(logger)
	if err := store.Open(path); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate state database: %w", err)
	}
	return store, nil
}
