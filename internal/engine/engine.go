// Package engine orchestrates corpus discovery, linting, and indexing.
// It ties the loader, the lint analyzers, and the index store together
// behind the operations the CLI exposes.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/dia3-labs/brief/internal/loader"
	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/lint/corpus"
	"github.com/dia3-labs/brief/pkg/schema"
)

// Engine runs corpus operations.
type Engine struct {
	logger       *slog.Logger
	loader       *loader.Loader
	store        core.Store
	lintConfig   *lint.Config
	corpusConfig corpus.Config

	reportsDir    string
	profilesDir   string
	forcedProfile string

	corpus     *loader.Corpus
	loadErrors []loader.LoadError
}

// Config holds engine configuration.
type Config struct {
	// ReportsDir is the corpus root directory.
	ReportsDir string
	// ProfilesDir holds additional profile definitions (optional).
	ProfilesDir string
	// Profile forces every report onto one profile instead of resolving
	// per document (optional).
	Profile string
	// Store is the index store (optional; indexing and diagnostic
	// recording are skipped when nil).
	Store core.Store
	// LintConfig controls rule enablement and options.
	LintConfig *lint.Config
	// CorpusConfig holds corpus rule thresholds.
	CorpusConfig corpus.Config
	// Logger is the structured logger (discard if nil).
	Logger *slog.Logger
}

// New creates an engine. Profiles from ProfilesDir are registered before
// any discovery runs.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if cfg.ProfilesDir != "" {
		profiles, err := schema.LoadDir(cfg.ProfilesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load profiles: %w", err)
		}
		if len(profiles) > 0 {
			logger.Debug("custom profiles registered", "count", len(profiles))
		}
	}

	if cfg.Profile != "" {
		if _, ok := schema.Get(cfg.Profile); !ok {
			return nil, fmt.Errorf("unknown profile %q (known: %v)", cfg.Profile, schema.Names())
		}
	}

	lintConfig := cfg.LintConfig
	if lintConfig == nil {
		lintConfig = lint.NewConfig()
	}
	corpusConfig := cfg.CorpusConfig
	if corpusConfig == (corpus.Config{}) {
		corpusConfig = corpus.DefaultConfig()
	}

	return &Engine{
		logger:        logger,
		loader:        loader.New(logger),
		store:         cfg.Store,
		lintConfig:    lintConfig,
		corpusConfig:  corpusConfig,
		reportsDir:    cfg.ReportsDir,
		profilesDir:   cfg.ProfilesDir,
		forcedProfile: cfg.Profile,
	}, nil
}

// Store returns the configured index store, or nil.
func (e *Engine) Store() core.Store {
	return e.store
}

// Corpus returns the last discovered corpus, or nil before Discover.
func (e *Engine) Corpus() *loader.Corpus {
	return e.corpus
}

// LoadErrors returns per-file failures from the last discovery.
func (e *Engine) LoadErrors() []loader.LoadError {
	return e.loadErrors
}

// Close releases the engine's store, if any.
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// profileFor resolves the schema profile for a report, honoring the
// forced profile.
func (e *Engine) profileFor(doc *core.Report) *schema.Profile {
	name := doc.Profile
	if e.forcedProfile != "" {
		name = e.forcedProfile
	}
	if name == "" {
		return nil
	}
	p, _ := schema.Get(name)
	return p
}
