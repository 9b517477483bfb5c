package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dia3-labs/brief/internal/cli/config"
	"github.com/dia3-labs/brief/internal/cli/output"
	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/schema"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, json, markdown
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the corpus and environment for problems",
		Long: `Run health checks over the project: configuration, directories,
profile definitions, the index store, and the corpus itself. Each check
reports ok, warning, or failed, with recommendations for anything that
needs attention.`,
		Example: `  # Check project health
  brief doctor

  # Output as JSON
  brief doctor --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

const (
	statusOK      = "ok"
	statusWarning = "warning"
	statusFailed  = "failed"
)

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	result := runHealthChecks(cmd, cmdCtx, cfg)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(result)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, result)
	default:
		return renderDoctorText(r, result)
	}
}

func runHealthChecks(cmd *cobra.Command, cmdCtx *CommandContext, cfg *config.Config) *output.DoctorOutput {
	out := &output.DoctorOutput{Healthy: true}

	add := func(name, status, message string) {
		out.Checks = append(out.Checks, output.HealthCheck{Name: name, Status: status, Message: message})
		if status == statusFailed {
			out.Healthy = false
		}
	}
	recommend := func(rec string) {
		out.Recommendations = append(out.Recommendations, rec)
	}

	// Configuration file
	if used := config.GetConfigFileUsed(); used != "" {
		add("config", statusOK, "using "+used)
	} else {
		add("config", statusWarning, "no brief.yaml found, using defaults")
		recommend("Run 'brief init' to scaffold a project configuration")
	}

	// Reports directory
	reportCount := countMarkdownFiles(cfg.ReportsDir)
	switch {
	case reportCount < 0:
		add("reports", statusFailed, fmt.Sprintf("reports directory %s does not exist", cfg.ReportsDir))
		recommend("Create the reports directory or point reports_dir at your corpus")
	case reportCount == 0:
		add("reports", statusWarning, fmt.Sprintf("no reports in %s", cfg.ReportsDir))
	default:
		add("reports", statusOK, fmt.Sprintf("%d reports in %s", reportCount, cfg.ReportsDir))
	}

	// Profiles
	if _, err := schema.LoadDir(cfg.ProfilesDir); err != nil {
		add("profiles", statusFailed, err.Error())
		recommend("Fix the profile YAML files in " + cfg.ProfilesDir)
	} else {
		add("profiles", statusOK, strings.Join(schema.Names(), ", "))
	}

	// Index store
	if store, err := openStore(cfg, cmdCtx.Logger); err != nil {
		add("store", statusFailed, err.Error())
		recommend("Check state_path (or postgres_dsn) in your configuration")
	} else {
		add("store", statusOK, fmt.Sprintf("%s store ready", cfg.Store))
		_ = store.Close()
	}

	// Corpus parse and lint
	if reportCount > 0 {
		checkCorpus(cmd, cfg, cmdCtx, add, recommend)
	}

	return out
}

func checkCorpus(cmd *cobra.Command, cfg *config.Config, cmdCtx *CommandContext,
	add func(name, status, message string), recommend func(rec string)) {

	eng, err := buildEngine(cfg, cmdCtx.Logger, engineOptions{})
	if err != nil {
		add("corpus", statusFailed, err.Error())
		return
	}
	defer func() { _ = eng.Close() }()

	discovery, err := eng.Discover()
	if err != nil {
		add("corpus", statusFailed, err.Error())
		return
	}
	if discovery.HasErrors() {
		add("corpus", statusFailed, fmt.Sprintf("%d reports failed to parse", len(discovery.Errors)))
		recommend("Run 'brief lint' for per-file parse errors")
	} else {
		add("corpus", statusOK, fmt.Sprintf("%d reports parsed, %d profiled",
			discovery.ReportsTotal, discovery.Profiled))
	}

	result, err := eng.LintAll(cmd.Context())
	if err != nil {
		add("lint", statusFailed, err.Error())
		return
	}
	errors := result.Counts[core.SeverityError]
	warnings := result.Counts[core.SeverityWarning]
	switch {
	case errors > 0:
		add("lint", statusFailed, fmt.Sprintf("%d errors, %d warnings", errors, warnings))
		recommend("Run 'brief lint' and fix the errors before publishing")
	case warnings > 0:
		add("lint", statusWarning, fmt.Sprintf("%d warnings", warnings))
	default:
		add("lint", statusOK, "corpus lints clean")
	}

	unprofiled := discovery.ReportsTotal - discovery.Profiled
	if unprofiled > 0 {
		add("profiled", statusWarning, fmt.Sprintf("%d reports resolve to no profile", unprofiled))
		recommend("Set 'profile:' in frontmatter so structure rules can apply")
	}
}

// countMarkdownFiles returns the number of .md files under dir, or -1 when
// the directory does not exist.
func countMarkdownFiles(dir string) int {
	if _, err := os.Stat(dir); err != nil {
		return -1
	}
	count := 0
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(name) == ".md" {
			count++
		}
		return nil
	})
	return count
}

func renderDoctorText(r *output.Renderer, result *output.DoctorOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("Project Health"))
	r.Println("")

	for _, check := range result.Checks {
		var badge string
		switch check.Status {
		case statusOK:
			badge = styles.StatusSuccess.Render("ok")
		case statusWarning:
			badge = styles.Warning.Render("warn")
		default:
			badge = styles.StatusFailed.Render("fail")
		}
		r.Printf("  %-6s %-10s %s\n", badge, check.Name, styles.Muted.Render(check.Message))
	}

	r.Println("")
	if result.Healthy {
		r.Success("No blocking problems found")
	} else {
		r.Error("Project has blocking problems")
	}

	if len(result.Recommendations) > 0 {
		r.Println("")
		r.Println(styles.Bold.Render("Recommendations"))
		for _, rec := range result.Recommendations {
			r.Println("  - " + rec)
		}
	}
	r.Println("")

	if !result.Healthy {
		return fmt.Errorf("doctor found blocking problems")
	}
	return nil
}

func renderDoctorMarkdown(r *output.Renderer, result *output.DoctorOutput) error {
	r.Println(output.FormatHeader(1, "Project Health"))
	r.Println("")
	for _, check := range result.Checks {
		r.Printf("- **%s**: %s", check.Name, check.Status)
		if check.Message != "" {
			r.Printf(" (%s)", check.Message)
		}
		r.Println("")
	}
	if len(result.Recommendations) > 0 {
		r.Println("")
		r.Println(output.FormatHeader(2, "Recommendations"))
		r.Println("")
		for _, rec := range result.Recommendations {
			r.Println("- " + rec)
		}
	}
	if !result.Healthy {
		return fmt.Errorf("doctor found blocking problems")
	}
	return nil
}
