package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store the logger in the command context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for
// config files.
const maxUpwardSearchLevels = 10

var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// findConfigFile finds the config file to use.
// Priority: explicit path > brief.yaml > brief.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat("brief.yaml"); err == nil {
		return "brief.yaml"
	}
	if _, err := os.Stat("brief.yml"); err == nil {
		return "brief.yml"
	}
	return ""
}

// configExistsIn checks if a brief config file exists in the directory.
func configExistsIn(dir string) bool {
	for _, name := range []string{"brief.yaml", "brief.yml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// findProjectRootUpward searches upward from startDir for a brief config
// file. Returns empty string if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configExistsIn(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the corpus project root.
// Priority:
//  1. Explicit --project-dir flag
//  2. Infer from --reports-dir (parent if it holds a config or is named
//     "reports")
//  3. Search upward from CWD for brief.yaml
//  4. Current working directory
func inferProjectRoot(flags *pflag.FlagSet) string {
	if flags != nil {
		if projectDir, _ := flags.GetString("project-dir"); projectDir != "" && flags.Changed("project-dir") {
			abs, err := filepath.Abs(projectDir)
			if err == nil {
				return abs
			}
			return filepath.Clean(projectDir)
		}

		if reportsDir, _ := flags.GetString("reports-dir"); reportsDir != "" && flags.Changed("reports-dir") {
			absReports, err := filepath.Abs(reportsDir)
			if err == nil {
				parent := filepath.Dir(absReports)
				if configExistsIn(parent) {
					return parent
				}
				if filepath.Base(absReports) == "reports" {
					return parent
				}
			}
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		if root := findProjectRootUpward(cwd); root != "" {
			return root
		}
	}

	cwd, _ := os.Getwd()
	if cwd == "" {
		cwd = "."
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not
// absolute. Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and
// flags. Precedence (highest to lowest): flags > env vars > config file >
// defaults.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	// Infer project root from flags before loading config. This enables
	// the anchor pattern: --reports-dir testdata/reports implies the
	// project root is testdata/.
	projectRoot := inferProjectRoot(flags)

	// Paths given as flags are relative to CWD, not the project root;
	// resolve them now to prevent double-resolution below.
	var flagReportsDir, flagProfilesDir, flagStatePath string
	if flags != nil {
		if flags.Changed("reports-dir") {
			if v, _ := flags.GetString("reports-dir"); v != "" {
				flagReportsDir, _ = filepath.Abs(v)
			}
		}
		if flags.Changed("profiles-dir") {
			if v, _ := flags.GetString("profiles-dir"); v != "" {
				flagProfilesDir, _ = filepath.Abs(v)
			}
		}
		if flags.Changed("state") {
			if v, _ := flags.GetString("state"); v != "" && v != ":memory:" {
				flagStatePath, _ = filepath.Abs(v)
			} else {
				flagStatePath = v
			}
		}
	}

	// An explicit config file anchors the project root when no flag did.
	if cfgFile != "" && projectRoot == inferProjectRoot(nil) {
		if absPath, err := filepath.Abs(cfgFile); err == nil {
			projectRoot = filepath.Dir(absPath)
		}
	}

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"reports_dir":  DefaultReportsDir,
		"profiles_dir": DefaultProfilesDir,
		"state_path":   DefaultStateFile,
		"store":        DefaultStore,
		"verbose":      false,
		"output":       DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file, searched in the project root when not explicit
	if cfgFile == "" {
		for _, name := range []string{"brief.yaml", "brief.yml"} {
			candidate := filepath.Join(projectRoot, name)
			if _, err := os.Stat(candidate); err == nil {
				cfgFile = candidate
				break
			}
		}
	}
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables: BRIEF_REPORTS_DIR -> reports_dir
	if err := k.Load(env.Provider("BRIEF_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "BRIEF_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			// The CLI says --state for brevity; the config key is
			// state_path.
			if key == "state" {
				return "state_path", posflag.FlagVal(flags, f)
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve relative paths against the project root.
	cfg.ProjectRoot = projectRoot
	if flagReportsDir != "" {
		cfg.ReportsDir = flagReportsDir
	} else {
		cfg.ReportsDir = resolvePathRelativeTo(cfg.ReportsDir, projectRoot)
	}
	if flagProfilesDir != "" {
		cfg.ProfilesDir = flagProfilesDir
	} else {
		cfg.ProfilesDir = resolvePathRelativeTo(cfg.ProfilesDir, projectRoot)
	}
	if flagStatePath != "" {
		cfg.StatePath = flagStatePath
	} else if cfg.StatePath != ":memory:" {
		cfg.StatePath = resolvePathRelativeTo(cfg.StatePath, projectRoot)
	}

	if cfg.Store != "sqlite" && cfg.Store != "postgres" {
		return nil, fmt.Errorf("invalid store %q: must be sqlite or postgres", cfg.Store)
	}
	if cfg.Store == "postgres" && cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("store is postgres but postgres_dsn is not set")
	}

	currentConfig = &cfg
	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger, so the
// commands package can retrieve it without an import cycle.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
