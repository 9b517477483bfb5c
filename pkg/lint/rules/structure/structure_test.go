package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/parser"
	"github.com/dia3-labs/brief/pkg/schema"
)

func parseDoc(t *testing.T, src string) *core.Report {
	t.Helper()
	doc, err := parser.Parse("report.md", []byte(src))
	require.NoError(t, err)
	return doc
}

const completeReport = `# Pacific Positioning Assessment

## Executive Summary

- Success Probability: 74.9%

## Geographic Analysis

Terrain favors dispersed basing.

## Monte Carlo Simulation Results

- Iterations: 10,000

## Optimal Strategic Positions

Forward positions ranked by expected attrition.

## Strategic Recommendations

Disperse early.

## Methodology

Stochastic simulation over historical engagement data.

## Conclusion

- Confidence Interval: 70.0% - 80.0%
`

func TestMissingSectionClean(t *testing.T) {
	doc := parseDoc(t, completeReport)
	assert.Empty(t, MissingSection.Check(doc, schema.StrategicPositioning, nil))
}

func TestMissingSectionFlagsAbsentRequired(t *testing.T) {
	doc := parseDoc(t, "# Report\n\n## Executive Summary\n\n- Success Probability: 74.9%\n")

	diags := MissingSection.Check(doc, schema.StrategicPositioning, nil)
	require.Len(t, diags, 6)
	for _, d := range diags {
		assert.Equal(t, "ST01", d.RuleID)
		assert.Equal(t, lint.SeverityError, d.Severity)
	}
	assert.Contains(t, diags[0].Message, "Geographic Analysis")
}

func TestMissingSectionNilProfile(t *testing.T) {
	doc := parseDoc(t, "# Report\n")
	assert.Nil(t, MissingSection.Check(doc, nil, nil))
}

func TestSectionOrder(t *testing.T) {
	doc := parseDoc(t, `# Report

## Conclusion

- Success Probability: 74.9%

## Executive Summary

- Success Probability: 74.9%
`)

	diags := SectionOrder.Check(doc, schema.StrategicPositioning, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "ST02", diags[0].RuleID)
	assert.Contains(t, diags[0].Message, `"Executive Summary" should come before "Conclusion"`)
}

func TestSectionOrderIgnoresNonProfileSections(t *testing.T) {
	doc := parseDoc(t, `# Report

## Executive Summary

- Success Probability: 74.9%

## Annex A

Extra material.

## Conclusion

- Success Probability: 74.9%
`)
	assert.Empty(t, SectionOrder.Check(doc, schema.StrategicPositioning, nil))
}

func TestDuplicateSection(t *testing.T) {
	doc := parseDoc(t, `# Report

## Executive Summary

First.

## Executive Summary

Second.
`)

	diags := DuplicateSection.Check(doc, schema.StrategicPositioning, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "ST03", diags[0].RuleID)
	assert.Equal(t, 7, diags[0].Pos.Line)
}

func TestDuplicateSectionAllowRepeat(t *testing.T) {
	profile := &schema.Profile{
		Name: "appendix-heavy",
		Sections: []schema.SectionSpec{
			{Title: "Overview", Required: true},
			{Title: "Annex", AllowRepeat: true},
		},
	}
	doc := parseDoc(t, "# R\n\n## Annex\n\nA.\n\n## Annex\n\nB.\n")
	assert.Empty(t, DuplicateSection.Check(doc, profile, nil))
}

func TestEmptySection(t *testing.T) {
	doc := parseDoc(t, `# Report

## Executive Summary

## Geographic Analysis

Terrain notes.

## Conclusion

No figures here, just prose.
`)

	diags := EmptySection.Check(doc, schema.StrategicPositioning, nil)
	require.Len(t, diags, 2)
	assert.Contains(t, diags[0].Message, `"Executive Summary" is empty`)
	assert.Contains(t, diags[1].Message, `"Conclusion" should state at least one figure`)
}

func TestEmptySectionTableCountsAsContent(t *testing.T) {
	doc := parseDoc(t, `# Report

## Geographic Analysis

| Region | Score |
| ------ | ----- |
| North  | 7.2   |
`)
	diags := EmptySection.Check(doc, schema.StrategicPositioning, nil)
	for _, d := range diags {
		assert.NotContains(t, d.Message, "Geographic Analysis")
	}
}

func TestHeadingLevelJump(t *testing.T) {
	doc := parseDoc(t, `# Report

## Methodology

Setup.

#### Sampling

Detail.
`)

	diags := HeadingLevelJump.Check(doc, nil, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "ST05", diags[0].RuleID)
	assert.Equal(t, lint.SeverityHint, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "jumps from level 2 to 4")
}

func TestHeadingLevelJumpCleanNesting(t *testing.T) {
	doc := parseDoc(t, "# Report\n\n## Methodology\n\n### Sampling\n\nDetail.\n")
	assert.Empty(t, HeadingLevelJump.Check(doc, nil, nil))
}
