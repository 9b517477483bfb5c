package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	_ "github.com/dia3-labs/brief/pkg/lint/rules"
	"github.com/dia3-labs/brief/pkg/parser"
	"github.com/dia3-labs/brief/pkg/schema"
	"github.com/dia3-labs/brief/pkg/token"
)

func parseDoc(t *testing.T, src string) *core.Report {
	t.Helper()
	doc, err := parser.Parse("report.md", []byte(src))
	require.NoError(t, err)
	return doc
}

const messyReport = `---
date: "2025-06-14"
classification: UNCLASSIFIED
---

# Pacific Positioning Assessment

## executive summary

- Success Probability: 174.9%

## Conclusion

The outlook remains favorable.
`

func TestAnalyzeOrdersDiagnostics(t *testing.T) {
	doc := parseDoc(t, messyReport)

	diags := lint.NewAnalyzer(nil).Analyze(doc, schema.StrategicPositioning)
	require.NotEmpty(t, diags)

	for i := 1; i < len(diags); i++ {
		prev, cur := diags[i-1], diags[i]
		if prev.Pos == cur.Pos {
			assert.LessOrEqual(t, prev.RuleID, cur.RuleID)
		} else {
			assert.True(t, prev.Pos.Before(cur.Pos) || prev.Pos == cur.Pos,
				"diagnostic %d at %s sorts after %s", i, prev.Pos, cur.Pos)
		}
	}
}

func TestAnalyzeFindsExpectedRules(t *testing.T) {
	doc := parseDoc(t, messyReport)
	diags := lint.NewAnalyzer(nil).Analyze(doc, schema.StrategicPositioning)

	seen := make(map[string]bool)
	for _, d := range diags {
		seen[d.RuleID] = true
	}
	assert.True(t, seen["ST01"], "missing required sections")
	assert.True(t, seen["MT01"], "percent out of range")
	assert.True(t, seen["CV01"], "lowercase heading")
	assert.True(t, seen["CS01"], "conclusion without figure")
	assert.False(t, seen["CV02"], "date is valid")
	assert.False(t, seen["CV03"], "classification is valid")
}

func TestAnalyzeDisabledRule(t *testing.T) {
	doc := parseDoc(t, messyReport)

	cfg := lint.NewConfig().Disable("ST01").Disable("MT01")
	diags := lint.NewAnalyzer(cfg).Analyze(doc, schema.StrategicPositioning)
	for _, d := range diags {
		assert.NotEqual(t, "ST01", d.RuleID)
		assert.NotEqual(t, "MT01", d.RuleID)
	}
}

func TestAnalyzeSeverityOverride(t *testing.T) {
	doc := parseDoc(t, messyReport)

	cfg := lint.NewConfig().SetSeverity("MT01", lint.SeverityHint)
	diags := lint.NewAnalyzer(cfg).Analyze(doc, schema.StrategicPositioning)
	for _, d := range diags {
		if d.RuleID == "MT01" {
			assert.Equal(t, lint.SeverityHint, d.Severity)
		}
	}
}

func TestAnalyzeNilDoc(t *testing.T) {
	assert.Nil(t, lint.NewAnalyzer(nil).Analyze(nil, nil))
}

func TestFilterBySeverity(t *testing.T) {
	diags := []lint.Diagnostic{
		{RuleID: "A", Severity: lint.SeverityError},
		{RuleID: "B", Severity: lint.SeverityWarning},
		{RuleID: "C", Severity: lint.SeverityHint},
	}

	errsOnly := lint.FilterBySeverity(diags, lint.SeverityError)
	require.Len(t, errsOnly, 1)
	assert.Equal(t, "A", errsOnly[0].RuleID)

	warnAndUp := lint.FilterBySeverity(diags, lint.SeverityWarning)
	assert.Len(t, warnAndUp, 2)
}

func TestSortDiagnostics(t *testing.T) {
	diags := []lint.Diagnostic{
		{RuleID: "ZZ99", Pos: token.Position{Line: 5, Col: 1}},
		{RuleID: "AA01", Pos: token.Position{Line: 5, Col: 1}},
		{RuleID: "MM50", Pos: token.Position{Line: 2, Col: 3}},
	}
	lint.SortDiagnostics(diags)
	assert.Equal(t, "MM50", diags[0].RuleID)
	assert.Equal(t, "AA01", diags[1].RuleID)
	assert.Equal(t, "ZZ99", diags[2].RuleID)
}

func TestRegistryLookups(t *testing.T) {
	assert.GreaterOrEqual(t, lint.Count(), 15)

	rule, ok := lint.GetByID("ST01")
	require.True(t, ok)
	assert.Equal(t, "structure.missing_section", rule.Name)

	all := lint.GetAll()
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}

	structure := lint.GetByGroup("structure")
	assert.Len(t, structure, 5)
	for _, r := range structure {
		assert.Equal(t, "structure", r.Group)
	}

	// No builtin rule is profile-restricted, so every rule applies.
	assert.Len(t, lint.GetByProfile("strategic-positioning"), lint.Count())
}

func TestGetRuleInfo(t *testing.T) {
	rule, ok := lint.GetByID("CV04")
	require.True(t, ok)

	info := lint.GetRuleInfo(rule)
	assert.Equal(t, "CV04", info.ID)
	assert.Equal(t, "document", info.Type)
	assert.Equal(t, []string{"pattern"}, info.ConfigKeys)
	assert.NotEmpty(t, info.BadExample)
}

func TestWrapRuleDef(t *testing.T) {
	rule, ok := lint.GetByID("MT01")
	require.True(t, ok)

	wrapped := lint.WrapRuleDef(rule)
	assert.Equal(t, "MT01", wrapped.ID())
	assert.Equal(t, "metrics", wrapped.Group())
	assert.Equal(t, lint.SeverityError, wrapped.DefaultSeverity())
}

func TestDecodeOptions(t *testing.T) {
	type opts struct {
		Pattern   string  `mapstructure:"pattern"`
		Tolerance float64 `mapstructure:"tolerance"`
	}

	var o opts
	err := lint.DecodeOptions(map[string]any{"pattern": "^x$", "tolerance": "2.5"}, &o)
	require.NoError(t, err)
	assert.Equal(t, "^x$", o.Pattern)
	assert.Equal(t, 2.5, o.Tolerance)

	var empty opts
	require.NoError(t, lint.DecodeOptions(nil, &empty))
	assert.Zero(t, empty)
}
