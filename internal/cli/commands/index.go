package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dia3-labs/brief/internal/cli/output"
	"github.com/dia3-labs/brief/internal/state"
)

// IndexOptions holds options for the index command.
type IndexOptions struct {
	Export string // DuckDB analytics export path
}

// NewIndexCommand creates the index command.
func NewIndexCommand() *cobra.Command {
	opts := &IndexOptions{}
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index reports and metrics into the state database",
		Long: `Index discovered reports into the state database: report records,
section layouts, and keyed metric samples.

Reports whose content is unchanged since the last run are skipped. The
indexed metrics power 'brief query history' and metric drift detection.

Output adapts to environment:
  - Terminal: Styled summary with success indicator
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # Index all reports
  brief index

  # Index and export analytics tables to DuckDB
  brief index --export analytics.duckdb

  # Output as JSON
  brief index --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Export, "export", "", "Export analytics tables to a DuckDB file after indexing")

	return cmd
}

func runIndex(cmd *cobra.Command, opts *IndexOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	eng := cmdCtx.Engine
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	result, err := eng.Index()
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	if opts.Export != "" {
		if err := state.ExportAnalytics(eng.Store(), opts.Export); err != nil {
			return fmt.Errorf("analytics export failed: %w", err)
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.IndexOutput{
			RunID: result.RunID,
			Summary: output.IndexSummary{
				ReportsTotal:   result.ReportsTotal,
				ReportsChanged: result.ReportsChanged,
				ReportsSkipped: result.ReportsSkipped,
				StatePath:      cfg.StatePath,
			},
		})
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Index Results"))
		r.Println("")
		r.Println(output.FormatKeyValue("Reports", fmt.Sprintf("%d", result.ReportsTotal)))
		r.Println(output.FormatKeyValue("Changed", fmt.Sprintf("%d", result.ReportsChanged)))
		r.Println(output.FormatKeyValue("Skipped", fmt.Sprintf("%d", result.ReportsSkipped)))
		r.Println(output.FormatKeyValue("State Path", cfg.StatePath))
		if opts.Export != "" {
			r.Println(output.FormatKeyValue("Analytics Export", opts.Export))
		}
		return nil
	default:
		r.Success(fmt.Sprintf("Indexed %d reports (%d changed, %d skipped)",
			result.ReportsTotal, result.ReportsChanged, result.ReportsSkipped))
		r.Muted(fmt.Sprintf("State saved to %s", cfg.StatePath))
		if opts.Export != "" {
			r.Muted(fmt.Sprintf("Analytics exported to %s", opts.Export))
		}
		return nil
	}
}
