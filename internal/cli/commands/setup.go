package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dia3-labs/brief/internal/cli/config"
	"github.com/dia3-labs/brief/internal/cli/output"
	"github.com/dia3-labs/brief/internal/engine"
	"github.com/dia3-labs/brief/internal/state"
	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: r,
	}, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an
// engine. Useful for commands that don't need the corpus or the store.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, falling back to
// environment variables when no config was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		ReportsDir:   getEnvOrDefault("BRIEF_REPORTS_DIR", config.DefaultReportsDir),
		ProfilesDir:  getEnvOrDefault("BRIEF_PROFILES_DIR", config.DefaultProfilesDir),
		StatePath:    getEnvOrDefault("BRIEF_STATE_PATH", config.DefaultStateFile),
		Store:        getEnvOrDefault("BRIEF_STORE", config.DefaultStore),
		PostgresDSN:  os.Getenv("BRIEF_POSTGRES_DSN"),
		Verbose:      os.Getenv("BRIEF_VERBOSE") == "true",
		OutputFormat: os.Getenv("BRIEF_OUTPUT"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// engineOptions tune engine construction per command.
type engineOptions struct {
	// LintConfig overrides the config-file lint settings (nil keeps them).
	LintConfig *lint.Config
	// WithStore opens and migrates the index store.
	WithStore bool
}

// createEngine builds the engine with an opened, migrated store.
func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	return buildEngine(cfg, logger, engineOptions{WithStore: true})
}

func buildEngine(cfg *config.Config, logger *slog.Logger, opts engineOptions) (*engine.Engine, error) {
	var store core.Store
	if opts.WithStore {
		var err error
		store, err = openStore(cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	lintCfg := opts.LintConfig
	if lintCfg == nil {
		lintCfg = cfg.LintSettings()
	}

	eng, err := engine.New(engine.Config{
		ReportsDir:   cfg.ReportsDir,
		ProfilesDir:  cfg.ProfilesDir,
		Profile:      cfg.Profile,
		Store:        store,
		LintConfig:   lintCfg,
		CorpusConfig: cfg.CorpusSettings(),
		Logger:       logger,
	})
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, err
	}
	return eng, nil
}

// openStore opens and migrates the configured index store.
func openStore(cfg *config.Config, logger *slog.Logger) (core.Store, error) {
	switch cfg.Store {
	case "postgres":
		s := state.NewPostgresStore(logger)
		if err := s.Open(cfg.PostgresDSN); err != nil {
			return nil, fmt.Errorf("failed to open index database: %w", err)
		}
		if err := s.Migrate(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to migrate index database: %w", err)
		}
		return s, nil
	default:
		if cfg.StatePath != ":memory:" {
			stateDir := filepath.Dir(cfg.StatePath)
			if stateDir != "." && stateDir != "" {
				if err := os.MkdirAll(stateDir, 0750); err != nil {
					return nil, fmt.Errorf("failed to create state directory: %w", err)
				}
			}
		}
		s := state.NewSQLiteStore(logger)
		if err := s.Open(cfg.StatePath); err != nil {
			return nil, fmt.Errorf("failed to open index database: %w", err)
		}
		if err := s.Migrate(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to migrate index database: %w", err)
		}
		return s, nil
	}
}
