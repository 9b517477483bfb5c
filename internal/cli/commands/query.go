package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dia3-labs/brief/internal/cli/config"
	"github.com/dia3-labs/brief/internal/state"

	// sqlite driver for state database queries.
	_ "modernc.org/sqlite"
)

// resolveStatePath returns the state database path from config or the default.
func resolveStatePath(cfg *config.Config) string {
	if cfg.StatePath != "" {
		return cfg.StatePath
	}
	return config.DefaultStateFile
}

// openStateDBReadOnly opens the state database in read-only mode.
func openStateDBReadOnly(path string) (*sql.DB, error) {
	return sql.Open("sqlite", "file:"+path+"?mode=ro")
}

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Query the state database",
		Long: `Query the brief state database directly.

Execute SQL queries against the state database to inspect runs, reports,
sections, metrics, and diagnostics. Supports multiple output formats for
scripting and integration.

When invoked without arguments, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  brief query "SELECT path, title FROM reports"

  # List available tables
  brief query tables

  # Show schema for a table
  brief query schema metrics

  # Metric history for a scenario
  brief query history pacific-posture "Success Probability"

  # Output as JSON
  brief query "SELECT * FROM runs" --format json

  # Interactive mode
  brief query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	cmd.AddCommand(newQueryTablesCommand(opts))
	cmd.AddCommand(newQuerySchemaCommand(opts))
	cmd.AddCommand(newQueryHistoryCommand(opts))

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	statePath := resolveStatePath(cmdCtx.Cfg)

	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		return fmt.Errorf("state database not found at %s (run 'brief index' first)", statePath)
	}

	var sqlQuery string

	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(os.Stdin):
		// Read from stdin (piped input)
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, statePath, opts)
	}

	return executeAndRender(cmd.Context(), cmd, statePath, sqlQuery, opts.Format)
}

func executeAndRender(ctx context.Context, cmd *cobra.Command, statePath, sqlQuery, format string) error {
	db, err := openStateDBReadOnly(statePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return renderResults(cmd.OutOrStdout(), rows, format)
}

// newQueryTablesCommand creates the tables subcommand.
func newQueryTablesCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List all tables in the state database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContextWithoutEngine(cmd)
			statePath := resolveStatePath(cmdCtx.Cfg)
			return listTables(cmd, statePath, opts.Format)
		},
	}
}

// newQuerySchemaCommand creates the schema subcommand.
func newQuerySchemaCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show schema for a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContextWithoutEngine(cmd)
			statePath := resolveStatePath(cmdCtx.Cfg)
			return showSchema(cmd, statePath, args[0], opts.Format)
		},
	}
}

// newQueryHistoryCommand creates the history subcommand.
func newQueryHistoryCommand(opts *QueryOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <scenario> <metric>",
		Short: "Show the indexed history of a metric",
		Long: `Show every indexed sample of a metric within a scenario, newest
first. Metric keys match case-insensitively.`,
		Example: `  brief query history pacific-posture "Success Probability"
  brief query history coastal-defense Iterations --limit 5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContextWithoutEngine(cmd)
			statePath := resolveStatePath(cmdCtx.Cfg)
			return showMetricHistory(cmd, cmdCtx, statePath, args[0], args[1], limit, opts.Format)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of samples")
	return cmd
}

func showMetricHistory(cmd *cobra.Command, cmdCtx *CommandContext, statePath, scenario, key string, limit int, format string) error {
	s := state.NewSQLiteStore(cmdCtx.Logger)
	if err := s.Open(statePath); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = s.Close() }()

	samples, err := s.MetricHistory(scenario, key, limit)
	if err != nil {
		return fmt.Errorf("history query failed: %w", err)
	}

	results := make([]map[string]any, 0, len(samples))
	for _, sample := range samples {
		results = append(results, map[string]any{
			"section":     sample.Section,
			"value":       sample.Value,
			"unit":        sample.Unit,
			"recorded_at": sample.RecordedAt.Format("2006-01-02 15:04:05"),
		})
	}
	cols := []string{"section", "value", "unit", "recorded_at"}
	return renderRowMaps(cmd.OutOrStdout(), cols, results, format)
}

func listTables(cmd *cobra.Command, statePath, format string) error {
	db, err := openStateDBReadOnly(statePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	return listTablesFromDB(cmd.Context(), cmd.OutOrStdout(), db, format)
}

func listTablesFromDB(ctx context.Context, w io.Writer, db *sql.DB, format string) error {
	query := `
		SELECT name, type
		FROM sqlite_master
		WHERE type IN ('table', 'view')
		AND name NOT LIKE 'sqlite_%'
		AND name NOT LIKE 'goose_%'
		ORDER BY type DESC, name
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	return renderResults(w, rows, format)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
