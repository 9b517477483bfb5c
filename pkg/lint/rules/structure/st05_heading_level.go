package structure

import (
	"fmt"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/schema"
)

func init() {
	lint.Register(HeadingLevelJump)
}

// HeadingLevelJump flags headings nested more than one level below their
// predecessor (e.g. an H4 directly under an H2).
var HeadingLevelJump = lint.RuleDef{
	ID:          "ST05",
	Name:        "structure.heading_level_jump",
	Group:       "structure",
	Description: "Heading level skips one or more levels.",
	Severity:    lint.SeverityHint,
	Check:       checkHeadingLevelJump,
	Rationale: "Skipped heading levels break outline navigation and usually indicate " +
		"a heading demoted by accident during editing.",
	Fix: "Use the next heading level down, or promote the heading.",
}

func checkHeadingLevelJump(doc *core.Report, _ *schema.Profile, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	prev := 0
	for _, sec := range doc.Sections {
		if sec.IsPreamble() {
			continue
		}
		if prev > 0 && sec.Level > prev+1 {
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:   "ST05",
				Severity: lint.SeverityHint,
				Message:  fmt.Sprintf("heading %q jumps from level %d to %d", sec.Title, prev, sec.Level),
				Pos:      sec.Heading,
			})
		}
		prev = sec.Level
	}
	return diagnostics
}
