package convention

import (
	"fmt"
	"strings"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/schema"
	"github.com/dia3-labs/brief/pkg/token"
)

func init() {
	lint.Register(Classification)
}

// Classification flags reports without a classification marking, and
// markings outside the profile's accepted set.
var Classification = lint.RuleDef{
	ID:          "CV03",
	Name:        "convention.classification",
	Group:       "convention",
	Description: "Classification marking is missing or not an accepted value.",
	Severity:    lint.SeverityWarning,
	Check:       checkClassification,
	Rationale: "An unmarked report defaults to the most restrictive handling; " +
		"a misspelled marking defaults to confusion.",
	BadExample:  "classification: UNCLASSFIED",
	GoodExample: "classification: UNCLASSIFIED",
}

func checkClassification(doc *core.Report, profile *schema.Profile, _ map[string]any) []lint.Diagnostic {
	pos := token.Position{Line: 1, Col: 1}

	if doc.Front.Classification == "" {
		return []lint.Diagnostic{{
			RuleID:   "CV03",
			Severity: lint.SeverityHint,
			Message:  "report has no classification marking",
			Pos:      pos,
		}}
	}

	accepted := schema.DefaultClassifications
	if profile != nil {
		accepted = profile.AcceptedClassifications()
	}
	marking := strings.ToUpper(doc.Front.Classification)
	for _, a := range accepted {
		if marking == a {
			return nil
		}
	}
	return []lint.Diagnostic{{
		RuleID:   "CV03",
		Severity: lint.SeverityWarning,
		Message: fmt.Sprintf("classification %q is not accepted (expected one of %s)",
			doc.Front.Classification, strings.Join(accepted, ", ")),
		Pos: pos,
	}}
}
