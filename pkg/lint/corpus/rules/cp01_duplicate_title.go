package corpusrules

import (
	"fmt"
	"strings"

	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/lint/corpus"
	"github.com/dia3-labs/brief/pkg/token"
)

func init() {
	corpus.Register(DuplicateTitle)
}

// DuplicateTitle flags reports that share a title with an earlier report.
var DuplicateTitle = corpus.RuleDef{
	ID:          "CP01",
	Name:        "corpus.duplicate_title",
	Group:       "corpus",
	Description: "Two reports share a title.",
	Severity:    lint.SeverityWarning,
	Check:       checkDuplicateTitle,
	Rationale: "Identical titles usually mean a report was copied as a template " +
		"and the title never updated; consumers cannot cite either one unambiguously.",
}

func checkDuplicateTitle(ctx corpus.Context) []corpus.Diagnostic {
	firstByTitle := make(map[string]string) // lowercased title -> first path
	var diagnostics []corpus.Diagnostic

	for _, r := range ctx.Reports() {
		key := strings.ToLower(strings.TrimSpace(r.Title))
		if key == "" {
			continue
		}
		if first, ok := firstByTitle[key]; ok {
			diagnostics = append(diagnostics, corpus.Diagnostic{
				RuleID:   "CP01",
				Severity: lint.SeverityWarning,
				Message:  fmt.Sprintf("title %q is already used by %s", r.Title, first),
				Path:     r.Path,
				Pos:      token.Position{Line: 1, Col: 1},
			})
			continue
		}
		firstByTitle[key] = r.Path
	}
	return diagnostics
}
