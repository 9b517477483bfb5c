package structure

import (
	"fmt"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/schema"
	"github.com/dia3-labs/brief/pkg/token"
)

func init() {
	lint.Register(MissingSection)
}

// MissingSection flags required profile sections absent from the report.
var MissingSection = lint.RuleDef{
	ID:          "ST01",
	Name:        "structure.missing_section",
	Group:       "structure",
	Description: "Required section is missing from the report.",
	Severity:    lint.SeverityError,
	Check:       checkMissingSection,
	Rationale: "Readers navigate positioning reports by their fixed section layout; " +
		"a report without an Executive Summary or Conclusion cannot be skimmed or compared.",
	Fix: "Add the missing section heading, even if its content is brief.",
}

func checkMissingSection(doc *core.Report, profile *schema.Profile, _ map[string]any) []lint.Diagnostic {
	if profile == nil {
		return nil
	}

	var diagnostics []lint.Diagnostic
	for _, title := range profile.RequiredSections() {
		if doc.Section(title) == nil {
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:   "ST01",
				Severity: lint.SeverityError,
				Message:  fmt.Sprintf("required section %q is missing", title),
				Pos:      token.Position{Line: 1, Col: 1},
			})
		}
	}
	return diagnostics
}
