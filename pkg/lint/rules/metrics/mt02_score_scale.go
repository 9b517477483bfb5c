package metrics

import (
	"fmt"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/schema"
)

func init() {
	lint.Register(ScoreScale)
}

// ScoreScale flags scores that exceed their declared scale or fall below
// zero.
var ScoreScale = lint.RuleDef{
	ID:          "MT02",
	Name:        "metrics.score_scale",
	Group:       "metrics",
	Description: "Score exceeds its declared scale.",
	Severity:    lint.SeverityError,
	Check:       checkScoreScale,
	BadExample:  "- **Overall Score**: 12.4/10",
	GoodExample: "- **Overall Score**: 8.4/10",
}

func checkScoreScale(doc *core.Report, _ *schema.Profile, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, m := range doc.Metrics() {
		if m.Unit != core.UnitScore || !m.Valid || m.Scale <= 0 {
			continue
		}
		if m.Value > m.Scale || m.Value < 0 {
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:   "MT02",
				Severity: lint.SeverityError,
				Message:  fmt.Sprintf("score %g exceeds its %g-point scale", m.Value, m.Scale),
				Pos:      m.Pos,
			})
		}
	}
	return diagnostics
}
