package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dia3-labs/brief/internal/cli/config"
	"github.com/dia3-labs/brief/internal/cli/output"
	"github.com/dia3-labs/brief/internal/engine"
	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/lint/corpus"
	_ "github.com/dia3-labs/brief/pkg/lint/corpus/rules" // register corpus rules
	_ "github.com/dia3-labs/brief/pkg/lint/rules"        // register document rules
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Path       string   // Report path prefix filter
	Format     string   // Output format override
	Disable    []string // Rule IDs to disable
	Rules      []string // Run only specific rules
	Severity   string   // Minimum severity to report
	FailOn     string   // Severity threshold for a non-zero exit
	SkipCorpus bool     // Skip corpus-level rules
	Watch      bool     // Re-lint on file changes
	NoStore    bool     // Skip recording the run in the index store
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [path]",
		Short: "Run lint rules on briefing reports",
		Long: `Analyze briefing reports for structural, metric, convention, and
consistency issues.

Runs document rules against every report, then corpus rules across the
corpus as a whole. Rules can be configured in brief.yaml.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Lint all reports
  brief lint

  # Lint reports under a subdirectory
  brief lint pacific/

  # Output as JSON
  brief lint --format json

  # Disable specific rules
  brief lint --disable CV02,CP03

  # Fail only on errors
  brief lint --fail-on error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Path = args[0]
			}
			return runLint(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity to report: error, warning, info, hint")
	cmd.Flags().StringVar(&opts.FailOn, "fail-on", "", "Severity that causes a non-zero exit: error, warning, info, hint")
	cmd.Flags().BoolVar(&opts.SkipCorpus, "skip-corpus", false, "Skip corpus-level rules")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Watch for changes and re-lint")
	cmd.Flags().BoolVar(&opts.NoStore, "no-store", false, "Do not record the run in the index store")

	return cmd
}

func runLint(cmd *cobra.Command, opts *LintOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	lintCfg := buildLintConfig(cfg, opts)

	eng, err := buildEngine(cfg, cmdCtx.Logger, engineOptions{
		LintConfig: lintCfg,
		WithStore:  !opts.NoStore,
	})
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	result, err := eng.LintAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	findings := selectFindings(result.Findings, opts)

	if errs := eng.LoadErrors(); len(errs) > 0 {
		for _, le := range errs {
			r.Error(fmt.Sprintf("%s: %v", le.Path, le.Err))
		}
	}

	renderLintResults(r, findings)

	if opts.Watch {
		r.Muted("Watching for changes (Ctrl+C to stop)...")
		return eng.Watch(cmd.Context(), func(res *engine.LintResult) {
			renderLintResults(r, selectFindings(res.Findings, opts))
		})
	}

	failOn := cfg.FailOnSeverity()
	if opts.FailOn != "" {
		if sev, ok := core.ParseSeverity(opts.FailOn); ok {
			failOn = sev
		}
	}
	failing := 0
	for _, f := range findings {
		if f.Severity <= failOn {
			failing++
		}
	}
	if failing > 0 {
		return fmt.Errorf("lint found %d issues at or above %s", failing, failOn)
	}
	return nil
}

// buildLintConfig layers CLI flags over the project lint config.
func buildLintConfig(cfg *config.Config, opts *LintOptions) *lint.Config {
	lintCfg := cfg.LintSettings()

	for _, id := range opts.Disable {
		lintCfg.Disable(strings.TrimSpace(id))
	}

	if opts.SkipCorpus {
		for _, rule := range corpus.GetAll() {
			lintCfg.Disable(rule.ID)
		}
	}

	// If --rule specified, disable all others
	if len(opts.Rules) > 0 {
		enabledSet := make(map[string]bool)
		for _, id := range opts.Rules {
			enabledSet[strings.TrimSpace(id)] = true
		}
		for _, rule := range lint.GetAll() {
			if !enabledSet[rule.ID] {
				lintCfg.Disable(rule.ID)
			}
		}
		for _, rule := range corpus.GetAll() {
			if !enabledSet[rule.ID] {
				lintCfg.Disable(rule.ID)
			}
		}
	}

	return lintCfg
}

// selectFindings applies the path prefix and severity display filters.
func selectFindings(findings []engine.Finding, opts *LintOptions) []engine.Finding {
	prefix := strings.TrimPrefix(opts.Path, "./")
	threshold := core.SeverityHint
	if sev, ok := core.ParseSeverity(opts.Severity); ok {
		threshold = sev
	}

	var filtered []engine.Finding
	for _, f := range findings {
		if prefix != "" && !strings.HasPrefix(f.Path, prefix) {
			continue
		}
		if f.Severity > threshold {
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered
}

func renderLintResults(r *output.Renderer, findings []engine.Finding) {
	if len(findings) == 0 {
		r.Success("No lint issues found")
		return
	}

	mode := r.EffectiveMode()

	summary := output.LintSummary{TotalIssues: len(findings)}
	byPath := make(map[string][]engine.Finding)
	var paths []string
	for _, f := range findings {
		if _, seen := byPath[f.Path]; !seen {
			paths = append(paths, f.Path)
		}
		byPath[f.Path] = append(byPath[f.Path], f)
		switch f.Severity {
		case core.SeverityError:
			summary.Errors++
		case core.SeverityWarning:
			summary.Warnings++
		case core.SeverityInfo:
			summary.Info++
		case core.SeverityHint:
			summary.Hints++
		}
	}
	summary.FilesAnalyzed = len(paths)

	if mode == output.ModeJSON {
		jsonOutput := output.LintOutput{Summary: summary}
		for _, path := range paths {
			fileResult := output.LintFileResult{Path: path}
			for _, f := range byPath[path] {
				fileResult.Diagnostics = append(fileResult.Diagnostics, output.LintDiagnostic{
					RuleID:   f.RuleID,
					Severity: f.Severity.String(),
					Message:  f.Message,
					Line:     f.Pos.Line,
					Column:   f.Pos.Col,
				})
			}
			jsonOutput.Files = append(jsonOutput.Files, fileResult)
		}
		_ = r.JSON(jsonOutput)
		return
	}

	for _, path := range paths {
		r.Println(r.Styles().ReportPath.Render(path))
		for _, f := range byPath[path] {
			loc := fmt.Sprintf("%d:%d", f.Pos.Line, f.Pos.Col)
			if f.Pos.Line == 0 {
				loc = "-"
			}
			r.Printf("  %s  %s  %s  %s\n",
				r.Styles().Muted.Render(fmt.Sprintf("%-6s", loc)),
				severityLabel(r, f.Severity),
				r.Styles().Bold.Render(f.RuleID),
				f.Message,
			)
		}
		r.Println("")
	}

	summaryParts := []string{fmt.Sprintf("%d issues", summary.TotalIssues)}
	if summary.Errors > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.Hints > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d hints", summary.Hints))
	}
	r.Printf("Summary: %s in %d reports\n", strings.Join(summaryParts, ", "), summary.FilesAnalyzed)
}

func severityLabel(r *output.Renderer, sev core.Severity) string {
	switch sev {
	case core.SeverityError:
		return r.Styles().Error.Render("error  ")
	case core.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case core.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	case core.SeverityHint:
		return r.Styles().Muted.Render("hint   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}
