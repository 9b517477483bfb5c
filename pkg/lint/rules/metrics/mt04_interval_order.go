package metrics

import (
	"fmt"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/schema"
)

func init() {
	lint.Register(IntervalOrder)
}

// IntervalOrder flags ranges whose low bound exceeds the high bound.
var IntervalOrder = lint.RuleDef{
	ID:          "MT04",
	Name:        "metrics.interval_order",
	Group:       "metrics",
	Description: "Range bounds are inverted.",
	Severity:    lint.SeverityWarning,
	Check:       checkIntervalOrder,
	BadExample:  "Success probability in the 80.0% - 60.0% range.",
	GoodExample: "Success probability in the 60.0% - 80.0% range.",
}

func checkIntervalOrder(doc *core.Report, _ *schema.Profile, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, m := range doc.Metrics() {
		if m.Interval == nil || !m.Valid {
			continue
		}
		if m.Interval.Low > m.Interval.High {
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:   "MT04",
				Severity: lint.SeverityWarning,
				Message: fmt.Sprintf("range %g-%g is inverted",
					m.Interval.Low, m.Interval.High),
				Pos: m.Pos,
			})
		}
	}
	return diagnostics
}
