package structure

import (
	"fmt"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/schema"
)

func init() {
	lint.Register(EmptySection)
}

// EmptySection flags required sections with no content, and sections the
// profile marks metric-bearing that contain no figure.
var EmptySection = lint.RuleDef{
	ID:          "ST04",
	Name:        "structure.empty_section",
	Group:       "structure",
	Description: "Required section is empty or lacks a required figure.",
	Severity:    lint.SeverityWarning,
	Check:       checkEmptySection,
	Rationale: "A heading with nothing under it satisfies a template, not a reader. " +
		"Summary and results sections exist to carry numbers.",
	Fix: "Write the section, or drop it if the profile does not require it.",
}

func checkEmptySection(doc *core.Report, profile *schema.Profile, _ map[string]any) []lint.Diagnostic {
	if profile == nil {
		return nil
	}

	var diagnostics []lint.Diagnostic
	for _, sec := range doc.Sections {
		spec := profile.Section(sec.Title)
		if spec == nil {
			continue
		}

		if spec.Required && sec.WordCount() == 0 && len(sec.Tables) == 0 {
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:   "ST04",
				Severity: lint.SeverityWarning,
				Message:  fmt.Sprintf("required section %q is empty", sec.Title),
				Pos:      sec.Heading,
			})
			continue
		}

		if spec.RequiresMetric && len(sec.Metrics) == 0 {
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:   "ST04",
				Severity: lint.SeverityWarning,
				Message:  fmt.Sprintf("section %q should state at least one figure", sec.Title),
				Pos:      sec.Heading,
			})
		}
	}
	return diagnostics
}
