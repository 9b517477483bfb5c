package structure

import (
	"fmt"
	"strings"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/schema"
)

func init() {
	lint.Register(DuplicateSection)
}

// DuplicateSection flags section titles that appear more than once, unless
// the profile explicitly allows repetition for that section.
var DuplicateSection = lint.RuleDef{
	ID:          "ST03",
	Name:        "structure.duplicate_section",
	Group:       "structure",
	Description: "Section title appears more than once.",
	Severity:    lint.SeverityWarning,
	Check:       checkDuplicateSection,
	Rationale: "Two Executive Summaries in one report means one of them is stale. " +
		"Repeated titles also break section-anchored links.",
	Fix: "Merge the duplicate sections, or retitle one of them.",
}

func checkDuplicateSection(doc *core.Report, profile *schema.Profile, _ map[string]any) []lint.Diagnostic {
	seen := make(map[string]bool)
	var diagnostics []lint.Diagnostic
	for _, sec := range doc.Sections {
		if sec.IsPreamble() {
			continue
		}
		key := strings.ToLower(sec.Title)
		if seen[key] {
			if profile != nil {
				if spec := profile.Section(sec.Title); spec != nil && spec.AllowRepeat {
					continue
				}
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:   "ST03",
				Severity: lint.SeverityWarning,
				Message:  fmt.Sprintf("section %q appears more than once", sec.Title),
				Pos:      sec.Heading,
			})
			continue
		}
		seen[key] = true
	}
	return diagnostics
}
