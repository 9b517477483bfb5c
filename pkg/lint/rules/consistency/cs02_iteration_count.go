package consistency

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/schema"
)

func init() {
	lint.Register(IterationCount)
}

// IterationCount verifies that the simulation iteration count claimed in
// the Methodology section matches the one stated with the results.
var IterationCount = lint.RuleDef{
	ID:          "CS02",
	Name:        "consistency.iteration_count",
	Group:       "consistency",
	Description: "Methodology iteration count disagrees with the results section.",
	Severity:    lint.SeverityWarning,
	Check:       checkIterationCount,
	Rationale: "\"10,000 iterations\" in the methodology and \"5,000 iterations\" in " +
		"the results means one of the numbers survived a rerun and the other did not.",
}

// iterationPattern matches "10,000 Monte Carlo iterations", "5000 runs",
// "10,000+ simulations".
var iterationPattern = regexp.MustCompile(`(?i)([\d,]+)\+?\s+(?:monte\s+carlo\s+)?(?:iterations|simulations|runs)\b`)

func checkIterationCount(doc *core.Report, _ *schema.Profile, _ map[string]any) []lint.Diagnostic {
	methodology := doc.Section("Methodology")
	results := doc.Section("Monte Carlo Simulation Results")
	if methodology == nil || results == nil {
		return nil
	}

	claimed, okClaimed := iterationClaim(methodology.Body)
	stated, okStated := iterationClaim(results.Body)
	if !okClaimed || !okStated {
		return nil
	}

	if claimed != stated {
		return []lint.Diagnostic{{
			RuleID:   "CS02",
			Severity: lint.SeverityWarning,
			Message: fmt.Sprintf("methodology claims %d iterations but results state %d",
				claimed, stated),
			Pos: methodology.Heading,
		}}
	}
	return nil
}

// iterationClaim extracts the first iteration count mentioned in the text.
func iterationClaim(body string) (int64, bool) {
	m := iterationPattern.FindStringSubmatch(body)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(m[1], ",", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
