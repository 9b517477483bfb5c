package corpusrules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/lint/corpus"
	"github.com/dia3-labs/brief/pkg/token"
)

func init() {
	corpus.Register(MetricDrift)
}

// MetricDrift flags reports about the same scenario that disagree on a
// named metric beyond the configured tolerance.
var MetricDrift = corpus.RuleDef{
	ID:          "CP04",
	Name:        "corpus.metric_drift",
	Group:       "corpus",
	Description: "Reports disagree on a scenario metric beyond tolerance.",
	Severity:    lint.SeverityWarning,
	Check:       checkMetricDrift,
	ConfigKeys:  []string{"tolerance"},
	Rationale: "When the positioning report says 74.9% and the follow-up says 52.1% " +
		"for the same scenario, at least one of them is citing a stale simulation.",
}

type metricObservation struct {
	path  string
	value float64
	pos   int // position within sorted report order, for stable attribution
}

func checkMetricDrift(ctx corpus.Context) []corpus.Diagnostic {
	tolerance := ctx.Config().MetricDriftTolerance

	// (scenario, metric key) -> observations across reports
	observed := make(map[string][]metricObservation)
	for i, r := range ctx.Reports() {
		scenario := strings.TrimSpace(r.Front.Scenario)
		if scenario == "" {
			continue
		}
		for _, m := range r.Metrics() {
			if !m.Valid || m.Key == "" || m.Interval != nil {
				continue
			}
			if m.Unit != core.UnitPercent && m.Unit != core.UnitScore {
				continue
			}
			key := scenario + "\x00" + strings.ToLower(m.Key)
			observed[key] = append(observed[key], metricObservation{
				path:  r.Path,
				value: m.Value,
				pos:   i,
			})
		}
	}

	keys := make([]string, 0, len(observed))
	for k := range observed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var diagnostics []corpus.Diagnostic
	for _, key := range keys {
		obs := observed[key]
		if len(obs) < 2 {
			continue
		}
		low, high := obs[0], obs[0]
		for _, o := range obs[1:] {
			if o.value < low.value {
				low = o
			}
			if o.value > high.value {
				high = o
			}
		}
		if high.value-low.value <= tolerance {
			continue
		}

		parts := strings.SplitN(key, "\x00", 2)
		// Attribute to the later report; the earlier figure is presumed
		// the published baseline.
		attributed := high
		if low.pos > high.pos {
			attributed = low
		}
		diagnostics = append(diagnostics, corpus.Diagnostic{
			RuleID:   "CP04",
			Severity: lint.SeverityWarning,
			Message: fmt.Sprintf("scenario %q metric %q ranges from %g (%s) to %g (%s)",
				parts[0], parts[1], low.value, low.path, high.value, high.path),
			Path: attributed.path,
			Pos:  token.Position{Line: 1, Col: 1},
		})
	}
	return diagnostics
}
