package consistency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/parser"
	"github.com/dia3-labs/brief/pkg/schema"
)

func parseDoc(t *testing.T, src string) *core.Report {
	t.Helper()
	doc, err := parser.Parse("report.md", []byte(src))
	require.NoError(t, err)
	return doc
}

func TestConclusionRestatesPoint(t *testing.T) {
	doc := parseDoc(t, `# Report

## Executive Summary

- Success Probability: 74.9%

## Conclusion

The assessment holds at 74.9% across all modeled force mixes.
`)
	assert.Empty(t, ConclusionRestates.Check(doc, schema.StrategicPositioning, nil))
}

func TestConclusionRestatesRange(t *testing.T) {
	doc := parseDoc(t, `# Report

## Executive Summary

- Success Probability: 74.9%

## Conclusion

Success probability falls in the 70.0% - 80.0% range.
`)
	assert.Empty(t, ConclusionRestates.Check(doc, schema.StrategicPositioning, nil))
}

func TestConclusionNoFigure(t *testing.T) {
	doc := parseDoc(t, `# Report

## Executive Summary

- Success Probability: 74.9%

## Conclusion

The outlook remains favorable.
`)

	diags := ConclusionRestates.Check(doc, schema.StrategicPositioning, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "CS01", diags[0].RuleID)
	assert.Contains(t, diags[0].Message, "states no figure")
}

func TestConclusionContradicts(t *testing.T) {
	doc := parseDoc(t, `# Report

## Executive Summary

- Success Probability: 74.9%

## Conclusion

The assessment holds at 52.1%.
`)

	diags := ConclusionRestates.Check(doc, schema.StrategicPositioning, nil)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "do not match")
}

func TestConclusionTolerance(t *testing.T) {
	doc := parseDoc(t, `# Report

## Executive Summary

- Success Probability: 74.9%

## Conclusion

The assessment holds at 74.5%.
`)

	require.Len(t, ConclusionRestates.Check(doc, schema.StrategicPositioning, nil), 1)

	opts := map[string]any{"tolerance": 0.5}
	assert.Empty(t, ConclusionRestates.Check(doc, schema.StrategicPositioning, opts))
}

func TestConclusionRestatesProfileWithoutSections(t *testing.T) {
	doc := parseDoc(t, "# Report\n\n## Overview\n\nBody.\n")
	assert.Nil(t, ConclusionRestates.Check(doc, schema.ProjectSummary, nil))
}

func TestIterationCountAgreement(t *testing.T) {
	doc := parseDoc(t, `# Report

## Monte Carlo Simulation Results

The engine completed 10,000 iterations per scenario.

## Methodology

Each posture was evaluated over 10,000 Monte Carlo iterations.
`)
	assert.Empty(t, IterationCount.Check(doc, nil, nil))
}

func TestIterationCountDisagreement(t *testing.T) {
	doc := parseDoc(t, `# Report

## Monte Carlo Simulation Results

The engine completed 5,000 simulations per scenario.

## Methodology

Each posture was evaluated over 10,000 Monte Carlo iterations.
`)

	diags := IterationCount.Check(doc, nil, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "CS02", diags[0].RuleID)
	assert.Contains(t, diags[0].Message, "10000")
	assert.Contains(t, diags[0].Message, "5000")
}

func TestIterationCountNoClaim(t *testing.T) {
	doc := parseDoc(t, `# Report

## Monte Carlo Simulation Results

Results summarized below.

## Methodology

Stochastic simulation.
`)
	assert.Empty(t, IterationCount.Check(doc, nil, nil))
}
