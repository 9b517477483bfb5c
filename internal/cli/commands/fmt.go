package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dia3-labs/brief/pkg/format"
	"github.com/dia3-labs/brief/pkg/parser"
	"github.com/dia3-labs/brief/pkg/schema"
)

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	Write bool // Rewrite files in place
	Check bool // Exit non-zero when files need formatting
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt [path...]",
		Short: "Format briefing reports canonically",
		Long: `Rewrite briefing reports into canonical form: normalized ATX
headings, aligned tables, collapsed blank runs, and canonical section
casing for profiled reports.

Formatting is idempotent; running fmt twice produces identical output.
Without --write the formatted text is printed to stdout.`,
		Example: `  # Print formatted report to stdout
  brief fmt reports/pacific/assessment.md

  # Rewrite all reports in place
  brief fmt --write

  # CI check: fail when anything needs formatting
  brief fmt --check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Rewrite files in place")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Exit non-zero when files need formatting")

	return cmd
}

func runFmt(cmd *cobra.Command, args []string, opts *FmtOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	paths, err := collectMarkdownFiles(args, cfg.ReportsDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no reports found")
	}

	p := parser.New()
	var changed []string
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		formatted, err := format.Format(src, format.Options{Profile: profileForFile(p, path, src)})
		if err != nil {
			return fmt.Errorf("failed to format %s: %w", path, err)
		}

		if string(formatted) == string(src) {
			continue
		}
		changed = append(changed, path)

		switch {
		case opts.Check:
			// Report only.
		case opts.Write:
			if err := os.WriteFile(path, formatted, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		default:
			r.Printf("%s", formatted)
		}
	}

	if opts.Check {
		if len(changed) > 0 {
			for _, path := range changed {
				r.Println(path)
			}
			return fmt.Errorf("%d files need formatting", len(changed))
		}
		r.Success("All reports formatted")
		return nil
	}
	if opts.Write {
		r.Success(fmt.Sprintf("Formatted %d of %d reports", len(changed), len(paths)))
	}
	return nil
}

// profileForFile resolves the report profile so section headings can be
// canonicalized. A parse failure just means no profile.
func profileForFile(p *parser.Parser, path string, src []byte) *schema.Profile {
	doc, err := p.Parse(filepath.Base(path), src)
	if err != nil {
		return nil
	}
	var titles []string
	for _, sec := range doc.Sections {
		if !sec.IsPreamble() {
			titles = append(titles, sec.Title)
		}
	}
	return schema.Resolve(doc.Front.Profile, titles)
}

// collectMarkdownFiles expands the argument list into .md files. With no
// arguments the whole reports directory is walked.
func collectMarkdownFiles(args []string, reportsDir string) ([]string, error) {
	if len(args) == 0 {
		args = []string{reportsDir}
	}

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if path != arg && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(name), ".md") {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}
