package metrics

import (
	"fmt"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/schema"
)

func init() {
	lint.Register(PercentRange)
}

// PercentRange flags percentages outside 0-100.
var PercentRange = lint.RuleDef{
	ID:          "MT01",
	Name:        "metrics.percent_range",
	Group:       "metrics",
	Description: "Percentage value falls outside the 0-100 range.",
	Severity:    lint.SeverityError,
	Check:       checkPercentRange,
	Rationale: "A 174.9% success probability is a typo that survives review because " +
		"the surrounding prose still reads plausibly.",
	BadExample:  "- **Success Probability**: 174.9%",
	GoodExample: "- **Success Probability**: 74.9%",
}

func checkPercentRange(doc *core.Report, _ *schema.Profile, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, m := range doc.Metrics() {
		if m.Unit != core.UnitPercent || !m.Valid {
			continue
		}
		for _, v := range metricValues(m) {
			if v < 0 || v > 100 {
				diagnostics = append(diagnostics, lint.Diagnostic{
					RuleID:   "MT01",
					Severity: lint.SeverityError,
					Message:  fmt.Sprintf("percentage %s is outside 0-100", formatValue(v)),
					Pos:      m.Pos,
				})
				break
			}
		}
	}
	return diagnostics
}

// metricValues returns the values a metric asserts: the point value, or
// both bounds for a range.
func metricValues(m core.Metric) []float64 {
	if m.Interval != nil {
		return []float64{m.Interval.Low, m.Interval.High}
	}
	return []float64{m.Value}
}

func formatValue(v float64) string {
	return fmt.Sprintf("%g", v)
}
