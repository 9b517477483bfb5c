package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dia3-labs/brief/internal/cli/output"
	"github.com/dia3-labs/brief/internal/engine"
	"github.com/dia3-labs/brief/pkg/core"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all reports and their metadata",
		Long: `List all discovered reports with their profile, classification,
scenario, and indexed state.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List all reports (auto-detect output format)
  brief list

  # List reports as JSON
  brief list --output json

  # List reports as Markdown (for agents/scripts)
  brief list --output markdown`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	eng := cmdCtx.Engine
	r := cmdCtx.Renderer

	if _, err := eng.Discover(); err != nil {
		return fmt.Errorf("failed to discover reports: %w", err)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listJSON(eng, r)
	case output.ModeMarkdown:
		return listMarkdown(eng, r)
	default:
		return listText(eng, r)
	}
}

func listText(eng *engine.Engine, r *output.Renderer) error {
	reports := eng.Corpus().Reports
	r.Header(1, fmt.Sprintf("Reports (%d total)", len(reports)))

	for _, doc := range reports {
		profile := doc.Profile
		if profile == "" {
			profile = "-"
		}
		r.Printf("  %s  %s  %s  %s\n",
			r.Styles().ReportPath.Render(doc.Path),
			r.Styles().Muted.Render(profile),
			doc.Title,
			r.Styles().Muted.Render(fmt.Sprintf("%d sections", sectionCount(doc))),
		)
	}
	return nil
}

// sectionCount counts non-preamble sections.
func sectionCount(doc *core.Report) int {
	n := 0
	for _, sec := range doc.Sections {
		if !sec.IsPreamble() {
			n++
		}
	}
	return n
}

func listMarkdown(eng *engine.Engine, r *output.Renderer) error {
	reports := eng.Corpus().Reports

	r.Println(output.FormatHeader(1, fmt.Sprintf("Reports (%d total)", len(reports))))
	r.Println("")

	for _, doc := range reports {
		r.Println(output.FormatHeader(2, doc.Path))
		r.Println(output.FormatKeyValue("Title", doc.Title))
		if doc.Profile != "" {
			r.Println(output.FormatKeyValue("Profile", doc.Profile))
		}
		if doc.Front.Classification != "" {
			r.Println(output.FormatKeyValue("Classification", doc.Front.Classification))
		}
		if doc.Front.Scenario != "" {
			r.Println(output.FormatKeyValue("Scenario", doc.Front.Scenario))
		}
		if doc.Front.Date != "" {
			r.Println(output.FormatKeyValue("Date", doc.Front.Date))
		}
		r.Println(output.FormatKeyValue("Sections", fmt.Sprintf("%d", sectionCount(doc))))
		r.Println(output.FormatKeyValue("Metrics", fmt.Sprintf("%d", len(doc.Metrics()))))

		if rec := indexedRecord(eng, doc); rec != nil {
			r.Println(output.FormatKeyValue("Indexed", rec.IndexedAt.Format(time.RFC3339)))
		}

		r.Println("")
	}
	return nil
}

func listJSON(eng *engine.Engine, r *output.Renderer) error {
	reports := eng.Corpus().Reports

	listOutput := output.ListOutput{
		Reports: make([]output.ReportInfo, 0, len(reports)),
		Summary: output.ListSummary{Total: len(reports)},
	}

	for _, doc := range reports {
		info := output.ReportInfo{
			Path:           doc.Path,
			Title:          doc.Title,
			Profile:        doc.Profile,
			Classification: doc.Front.Classification,
			Scenario:       doc.Front.Scenario,
			Date:           doc.Front.Date,
			Sections:       sectionCount(doc),
			Metrics:        len(doc.Metrics()),
		}
		if doc.Profile != "" {
			listOutput.Summary.Profiled++
		}

		if rec := indexedRecord(eng, doc); rec != nil {
			info.LastRun = &output.LastRunInfo{
				IndexedAt:   rec.IndexedAt.Format(time.RFC3339),
				ContentHash: rec.ContentHash,
			}
		}

		listOutput.Reports = append(listOutput.Reports, info)
	}

	return r.JSON(listOutput)
}

// indexedRecord looks up a report's indexed state, tolerating a missing
// store or an unindexed report.
func indexedRecord(eng *engine.Engine, doc *core.Report) *core.ReportRecord {
	store := eng.Store()
	if store == nil {
		return nil
	}
	rec, err := store.GetReport(doc.Path)
	if err != nil {
		return nil
	}
	return rec
}
