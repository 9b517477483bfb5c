// Package config provides configuration management for the brief CLI.
package config

import (
	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/lint/corpus"
)

// Config holds all CLI configuration options.
type Config struct {
	ReportsDir   string         `koanf:"reports_dir"`
	ProfilesDir  string         `koanf:"profiles_dir"`
	StatePath    string         `koanf:"state_path"`
	Store        string         `koanf:"store"`        // "sqlite" or "postgres"
	PostgresDSN  string         `koanf:"postgres_dsn"` // used when store is "postgres"
	Profile      string         `koanf:"profile"`      // force a profile instead of resolving
	Verbose      bool           `koanf:"verbose"`
	OutputFormat string         `koanf:"output"`
	Lint         *LintConfig    `koanf:"lint"`
	Corpus       *CorpusConfig  `koanf:"corpus"`
	Serve        *ServeConfig   `koanf:"serve"`
	Generate     *GenerateConfig `koanf:"generate"`

	// ProjectRoot is the inferred corpus project root; not a config key.
	ProjectRoot string `koanf:"-"`
}

// LintConfig holds lint rule configuration.
type LintConfig struct {
	Disabled []string                  `koanf:"disabled"`
	Severity map[string]string         `koanf:"severity"`
	Rules    map[string]map[string]any `koanf:"rules"`
	FailOn   string                    `koanf:"fail_on"` // severity gate for exit status
}

// CorpusConfig holds corpus rule thresholds.
type CorpusConfig struct {
	Index                string  `koanf:"index"`
	MetricDriftTolerance float64 `koanf:"metric_drift_tolerance"`
}

// ServeConfig holds configuration for the corpus browser.
type ServeConfig struct {
	Port  int  `koanf:"port"`
	Watch bool `koanf:"watch"`
}

// GenerateConfig holds report generation settings.
type GenerateConfig struct {
	ScenariosDir string `koanf:"scenarios_dir"`
	MacrosDir    string `koanf:"macros_dir"`
}

// Default configuration values.
const (
	DefaultReportsDir  = "reports"
	DefaultProfilesDir = "profiles"
	DefaultStateFile   = ".brief/index.db"
	DefaultStore       = "sqlite"
	DefaultOutput      = "auto" // TTY=text, non-TTY=markdown
	DefaultServePort   = 8765
	DefaultFailOn      = "error"
)

// GetServeConfig returns the serve config with defaults applied.
func (c *Config) GetServeConfig() *ServeConfig {
	if c.Serve == nil {
		return &ServeConfig{Port: DefaultServePort, Watch: true}
	}
	s := c.Serve
	if s.Port == 0 {
		s.Port = DefaultServePort
	}
	return s
}

// GetGenerateConfig returns the generate config with defaults applied.
func (c *Config) GetGenerateConfig() *GenerateConfig {
	if c.Generate == nil {
		return &GenerateConfig{ScenariosDir: "scenarios", MacrosDir: "macros"}
	}
	g := c.Generate
	if g.ScenariosDir == "" {
		g.ScenariosDir = "scenarios"
	}
	if g.MacrosDir == "" {
		g.MacrosDir = "macros"
	}
	return g
}

// LintSettings converts the YAML lint block into a lint.Config.
func (c *Config) LintSettings() *lint.Config {
	cfg := lint.NewConfig()
	if c.Lint == nil {
		return cfg
	}
	for _, id := range c.Lint.Disabled {
		cfg.Disable(id)
	}
	for id, sev := range c.Lint.Severity {
		if parsed, ok := core.ParseSeverity(sev); ok {
			cfg.SetSeverity(id, parsed)
		}
	}
	for id, opts := range c.Lint.Rules {
		cfg.SetRuleOptions(id, opts)
	}
	return cfg
}

// FailOnSeverity returns the severity gate for lint exit status.
func (c *Config) FailOnSeverity() core.Severity {
	failOn := DefaultFailOn
	if c.Lint != nil && c.Lint.FailOn != "" {
		failOn = c.Lint.FailOn
	}
	sev, ok := core.ParseSeverity(failOn)
	if !ok {
		sev = core.SeverityError
	}
	return sev
}

// CorpusSettings converts the YAML corpus block into a corpus.Config.
func (c *Config) CorpusSettings() corpus.Config {
	cfg := corpus.DefaultConfig()
	if c.Corpus == nil {
		return cfg
	}
	if c.Corpus.Index != "" {
		cfg.IndexDocPath = c.Corpus.Index
	}
	if c.Corpus.MetricDriftTolerance > 0 {
		cfg.MetricDriftTolerance = c.Corpus.MetricDriftTolerance
	}
	return cfg
}
