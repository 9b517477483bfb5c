package convention

import (
	"fmt"
	"time"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/schema"
	"github.com/dia3-labs/brief/pkg/token"
)

func init() {
	lint.Register(DateFormat)
}

// DateFormat flags reports whose frontmatter date is missing or not a real
// ISO-8601 calendar date.
var DateFormat = lint.RuleDef{
	ID:          "CV02",
	Name:        "convention.date_format",
	Group:       "convention",
	Description: "Frontmatter date is missing or not ISO-8601 (YYYY-MM-DD).",
	Severity:    lint.SeverityWarning,
	Check:       checkDateFormat,
	Rationale: "Reports are sorted and diffed by date across the corpus; " +
		"\"June 14th\" and \"14/06/2025\" sort as noise.",
	BadExample:  "date: \"06/14/2025\"",
	GoodExample: "date: \"2025-06-14\"",
}

func checkDateFormat(doc *core.Report, _ *schema.Profile, _ map[string]any) []lint.Diagnostic {
	pos := token.Position{Line: 1, Col: 1}

	if doc.Front.Date == "" {
		return []lint.Diagnostic{{
			RuleID:   "CV02",
			Severity: lint.SeverityHint,
			Message:  "report has no frontmatter date",
			Pos:      pos,
		}}
	}

	if _, err := time.Parse("2006-01-02", doc.Front.Date); err != nil {
		return []lint.Diagnostic{{
			RuleID:   "CV02",
			Severity: lint.SeverityWarning,
			Message:  fmt.Sprintf("date %q is not ISO-8601 (YYYY-MM-DD)", doc.Front.Date),
			Pos:      pos,
		}}
	}
	return nil
}
