package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dia3-labs/brief/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new briefing project",
		Long: `Initialize a briefing project with the default directory structure
and configuration.

This creates:
  - brief.yaml configuration file
  - reports/ directory with an example report
  - profiles/ directory with an example custom profile

Use --example for a full working demo: a strategic positioning report,
the scenario it generates from, and Starlark macros for derived metrics.`,
		Example: `  # Initialize in the current directory
  brief init

  # Initialize with the full example corpus
  brief init --example

  # Initialize in a new directory
  brief init field-briefings

  # Overwrite existing files
  brief init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cmdCtx := NewCommandContextWithoutEngine(cmd)
			if example {
				return runInitExample(cmdCtx.Renderer, dir, force)
			}
			return runInit(cmdCtx.Renderer, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Create a full example corpus with a scenario and macros")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := prepareInitDir(dir, force); err != nil {
		return err
	}

	if err := copyTemplate("minimal", dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, _ := listTemplateFiles("minimal")
	for _, f := range files {
		r.Success(f)
	}

	r.Println("")
	r.Success("Briefing project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Write reports in reports/")
	r.Println("  2. Run 'brief lint' to check them")
	r.Println("  3. Run 'brief index' to record metrics")
	r.Println("  4. Run 'brief serve' to browse the corpus")

	return nil
}

func runInitExample(r *output.Renderer, dir string, force bool) error {
	if err := prepareInitDir(dir, force); err != nil {
		return err
	}

	if err := copyTemplate("example", dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, _ := listTemplateFiles("example")
	groups := groupTemplateFiles(files)

	for _, category := range []string{"config", "reports", "profiles", "scenarios", "macros"} {
		if len(groups[category]) == 0 {
			continue
		}
		r.Header(2, capitalizeFirst(category))
		for _, f := range groups[category] {
			r.Success(f)
		}
		r.Println("")
	}

	r.Success("Briefing project initialized with example corpus!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Run 'brief lint' to see the corpus lint clean")
	r.Println("  2. Run 'brief generate pacific-posture --force' to regenerate from the scenario")
	r.Println("  3. Run 'brief serve' to browse the corpus")

	return nil
}

func prepareInitDir(dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "brief.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("brief.yaml already exists, use --force to overwrite")
	}
	return nil
}
