package metrics

import (
	"fmt"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/schema"
)

func init() {
	lint.Register(MalformedValue)
}

// MalformedValue flags metric values that look numeric but failed to parse.
var MalformedValue = lint.RuleDef{
	ID:          "MT03",
	Name:        "metrics.malformed_value",
	Group:       "metrics",
	Description: "Metric value looks numeric but does not parse.",
	Severity:    lint.SeverityWarning,
	Check:       checkMalformedValue,
	Rationale: "Values like \"74.9.3%\" render fine and read fine, but disappear " +
		"from any downstream aggregation of the corpus.",
	BadExample:  "- **Success Probability**: 74.9.3%",
	GoodExample: "- **Success Probability**: 74.9%",
}

func checkMalformedValue(doc *core.Report, _ *schema.Profile, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, m := range doc.Metrics() {
		if m.Valid {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:   "MT03",
			Severity: lint.SeverityWarning,
			Message:  fmt.Sprintf("metric %q has unparseable value %q", m.Key, m.RawValue),
			Pos:      m.Pos,
		})
	}
	return diagnostics
}
