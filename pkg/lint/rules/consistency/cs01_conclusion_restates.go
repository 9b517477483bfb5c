package consistency

import (
	"math"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/schema"
)

func init() {
	lint.Register(ConclusionRestates)
}

// ConclusionRestates verifies that the Conclusion restates at least one
// percentage from the Executive Summary, either as the same figure or as a
// range containing it.
var ConclusionRestates = lint.RuleDef{
	ID:          "CS01",
	Name:        "consistency.conclusion_restates",
	Group:       "consistency",
	Description: "Conclusion does not restate any Executive Summary figure.",
	Severity:    lint.SeverityWarning,
	Check:       checkConclusionRestates,
	ConfigKeys:  []string{"tolerance"},
	Rationale: "The conclusion is what gets quoted. When it drifts from the summary " +
		"figures, the two halves of the report argue with each other.",
	Fix: "Restate the summary probability (or a range containing it) in the Conclusion.",
}

// conclusionOptions are the CS01 rule options.
type conclusionOptions struct {
	// Tolerance is the allowed absolute difference, in percentage points,
	// for a restated point figure.
	Tolerance float64 `mapstructure:"tolerance"`
}

func checkConclusionRestates(doc *core.Report, profile *schema.Profile, opts map[string]any) []lint.Diagnostic {
	if profile == nil || profile.Section("Executive Summary") == nil || profile.Section("Conclusion") == nil {
		return nil
	}

	summary := doc.Section("Executive Summary")
	conclusion := doc.Section("Conclusion")
	if summary == nil || conclusion == nil {
		return nil // ST01 covers missing sections
	}

	summaryFigures := percentFigures(summary.Metrics)
	if len(summaryFigures) == 0 {
		return nil // nothing to restate
	}
	conclusionMetrics := percentMetrics(conclusion.Metrics)
	if len(conclusionMetrics) == 0 {
		return []lint.Diagnostic{{
			RuleID:   "CS01",
			Severity: lint.SeverityWarning,
			Message:  "conclusion states no figure; the executive summary's probabilities should be restated",
			Pos:      conclusion.Heading,
		}}
	}

	o := conclusionOptions{Tolerance: 0.05}
	_ = lint.DecodeOptions(opts, &o)

	for _, v := range summaryFigures {
		for _, m := range conclusionMetrics {
			if restates(m, v, o.Tolerance) {
				return nil
			}
		}
	}
	return []lint.Diagnostic{{
		RuleID:   "CS01",
		Severity: lint.SeverityWarning,
		Message:  "conclusion figures do not match any Executive Summary percentage",
		Pos:      conclusion.Heading,
	}}
}

// restates reports whether metric m restates the value v: equal within
// tolerance, or a range containing v.
func restates(m core.Metric, v, tolerance float64) bool {
	if m.Interval != nil {
		return v >= m.Interval.Low-tolerance && v <= m.Interval.High+tolerance
	}
	return math.Abs(m.Value-v) <= tolerance
}

func percentMetrics(ms []core.Metric) []core.Metric {
	var out []core.Metric
	for _, m := range ms {
		if m.Valid && m.Unit == core.UnitPercent {
			out = append(out, m)
		}
	}
	return out
}

func percentFigures(ms []core.Metric) []float64 {
	var out []float64
	for _, m := range percentMetrics(ms) {
		if m.Interval == nil {
			out = append(out, m.Value)
		}
	}
	return out
}
