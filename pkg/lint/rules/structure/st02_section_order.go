package structure

import (
	"fmt"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/schema"
)

func init() {
	lint.Register(SectionOrder)
}

// SectionOrder flags profile sections that appear out of canonical order.
var SectionOrder = lint.RuleDef{
	ID:          "ST02",
	Name:        "structure.section_order",
	Group:       "structure",
	Description: "Sections appear out of the profile's canonical order.",
	Severity:    lint.SeverityWarning,
	Check:       checkSectionOrder,
	Rationale: "A Conclusion placed before the Monte Carlo results reads as a different " +
		"document; canonical order keeps the whole corpus skimmable.",
	Fix: "Reorder the sections to match the profile layout.",
}

func checkSectionOrder(doc *core.Report, profile *schema.Profile, _ map[string]any) []lint.Diagnostic {
	if profile == nil {
		return nil
	}

	var diagnostics []lint.Diagnostic
	maxIndex := -1
	maxTitle := ""
	for _, sec := range doc.Sections {
		idx := profile.SectionIndex(sec.Title)
		if idx < 0 {
			continue // not a profile section; free placement
		}
		if idx < maxIndex {
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:   "ST02",
				Severity: lint.SeverityWarning,
				Message:  fmt.Sprintf("section %q should come before %q", sec.Title, maxTitle),
				Pos:      sec.Heading,
			})
			continue
		}
		maxIndex = idx
		maxTitle = sec.Title
	}
	return diagnostics
}
