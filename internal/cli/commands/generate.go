package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dia3-labs/brief/internal/cli/output"
	"github.com/dia3-labs/brief/internal/render"
)

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	Stdout bool // Print markdown instead of writing report files
	Force  bool // Overwrite existing report files
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [scenario...]",
		Short: "Generate reports from scenario definitions",
		Long: `Render scenario YAML files into briefing reports laid out per their
profile. Without arguments every scenario in the scenarios directory is
rendered; otherwise only the named scenarios.

Derived metrics are Starlark expressions evaluated against the scenario
data, optionally calling macros loaded from the macros directory.
Generated reports conform to their profile's section layout and land in
the reports directory, named after the scenario.`,
		Example: `  # Generate every scenario
  brief generate

  # Generate one scenario, print to stdout
  brief generate pacific-posture --stdout

  # Regenerate over existing reports
  brief generate --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "Print generated markdown instead of writing files")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite existing report files")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string, opts *GenerateOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer
	gen := cfg.GetGenerateConfig()

	scenarios, err := selectScenarios(gen.ScenariosDir, args)
	if err != nil {
		return err
	}
	if len(scenarios) == 0 {
		return fmt.Errorf("no scenarios found in %s", gen.ScenariosDir)
	}

	macros, err := render.LoadMacros(gen.MacrosDir)
	if err != nil {
		return err
	}

	var spinner *output.Spinner
	if r.EffectiveMode() == output.ModeText && !opts.Stdout {
		spinner = r.NewSpinner("Generating reports...")
		spinner.Start()
	}

	var results []output.GenerateOutput
	for _, sc := range scenarios {
		markdown, err := render.Generate(sc, macros)
		if err != nil {
			if spinner != nil {
				spinner.Fail("Generation failed")
			}
			return err
		}

		path := render.OutputPath(cfg.ReportsDir, sc)
		res := output.GenerateOutput{Scenario: sc.Name, Path: path}

		if opts.Stdout {
			res.Markdown = string(markdown)
		} else {
			if !opts.Force {
				if _, err := os.Stat(path); err == nil {
					if spinner != nil {
						spinner.Fail("Generation failed")
					}
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				if spinner != nil {
					spinner.Fail("Generation failed")
				}
				return fmt.Errorf("failed to create reports directory: %w", err)
			}
			if err := os.WriteFile(path, markdown, 0o644); err != nil {
				if spinner != nil {
					spinner.Fail("Generation failed")
				}
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
		results = append(results, res)
	}

	if spinner != nil {
		spinner.Success(fmt.Sprintf("Generated %d reports", len(results)))
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(results)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Generated Reports"))
		r.Println("")
		for _, res := range results {
			if opts.Stdout {
				r.Println(res.Markdown)
			} else {
				r.Println(output.FormatKeyValue(res.Scenario, res.Path))
			}
		}
	default:
		if opts.Stdout {
			for _, res := range results {
				r.Println(res.Markdown)
			}
			return nil
		}
		for _, res := range results {
			r.Printf("  %s %s\n",
				r.Styles().Bold.Render(res.Scenario),
				r.Styles().ReportPath.Render(res.Path))
		}
	}
	return nil
}

// selectScenarios loads all scenarios or just the named ones.
func selectScenarios(dir string, names []string) ([]*render.Scenario, error) {
	if len(names) == 0 {
		return render.LoadDir(dir)
	}
	var out []*render.Scenario
	for _, name := range names {
		sc, err := render.FindScenario(dir, name)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}
