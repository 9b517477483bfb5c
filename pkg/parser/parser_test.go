package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dia3-labs/brief/pkg/core"
)

const sampleReport = `---
title: "Pacific Theater Strategic Positioning"
date: "2025-06-14"
classification: UNCLASSIFIED
profile: strategic-positioning
scenario: pacific-theater
tags: [pacific, maritime]
---

# Pacific Theater Strategic Positioning

## Executive Summary

- **Success Probability**: 74.9%
- **Overall Score**: 7.2/10
- **Iterations**: 10,000+

The corridor remains contested. See [prior analysis](archive/2024-pacific.md).

## Monte Carlo Simulation Results

| Position | Score | Probability |
|----------|-------|-------------|
| Northern Approach | 8.1 | 68.2% |
| Central Corridor | 7.4 | 61.5% |

## Conclusion

Success probability in the 70.0% - 80.0% range, consistent with the
executive summary. Details at https://example.org/methodology.
`

func TestParseSampleReport(t *testing.T) {
	r, err := Parse("pacific/positioning.md", []byte(sampleReport))
	require.NoError(t, err)

	assert.Equal(t, "Pacific Theater Strategic Positioning", r.Title)
	assert.Equal(t, "strategic-positioning", r.Profile)
	assert.Equal(t, "pacific-theater", r.Front.Scenario)
	assert.Equal(t, []string{"pacific", "maritime"}, r.Front.Tags)

	require.Len(t, r.Sections, 4)
	assert.Equal(t, "Pacific Theater Strategic Positioning", r.Sections[0].Title)
	assert.Equal(t, 1, r.Sections[0].Level)
	assert.Equal(t, "Executive Summary", r.Sections[1].Title)
	assert.Equal(t, 2, r.Sections[1].Level)
	assert.Equal(t, "Monte Carlo Simulation Results", r.Sections[2].Title)
	assert.Equal(t, "Conclusion", r.Sections[3].Title)
}

func TestParseSectionSpans(t *testing.T) {
	r, err := Parse("r.md", []byte(sampleReport))
	require.NoError(t, err)

	// Spans are ordered and non-overlapping.
	for i := 1; i < len(r.Sections); i++ {
		prev, cur := r.Sections[i-1], r.Sections[i]
		assert.False(t, cur.Span.Start.Before(prev.Span.End),
			"section %q overlaps %q", cur.Title, prev.Title)
	}

	// Frontmatter lines count toward positions: the H1 sits past line 8.
	assert.Greater(t, r.Sections[0].Heading.Line, 8)
}

func TestParseMetricsFromSections(t *testing.T) {
	r, err := Parse("r.md", []byte(sampleReport))
	require.NoError(t, err)

	sec := r.Section("Executive Summary")
	require.NotNil(t, sec)
	require.Len(t, sec.Metrics, 3)

	prob := sec.Metrics[0]
	assert.Equal(t, "Success Probability", prob.Key)
	assert.True(t, prob.Valid)
	assert.Equal(t, core.UnitPercent, prob.Unit)
	assert.InDelta(t, 74.9, prob.Value, 0.001)

	score := sec.Metrics[1]
	assert.Equal(t, core.UnitScore, score.Unit)
	assert.InDelta(t, 7.2, score.Value, 0.001)
	assert.InDelta(t, 10, score.Scale, 0.001)

	iters := sec.Metrics[2]
	assert.Equal(t, core.UnitCount, iters.Unit)
	assert.InDelta(t, 10000, iters.Value, 0.001)
}

func TestParseIntervalMetric(t *testing.T) {
	r, err := Parse("r.md", []byte(sampleReport))
	require.NoError(t, err)

	sec := r.Section("Conclusion")
	require.NotNil(t, sec)
	require.NotEmpty(t, sec.Metrics)

	m := sec.Metrics[0]
	require.NotNil(t, m.Interval)
	assert.InDelta(t, 70.0, m.Interval.Low, 0.001)
	assert.InDelta(t, 80.0, m.Interval.High, 0.001)
	assert.Equal(t, core.UnitPercent, m.Unit)
}

func TestParseTables(t *testing.T) {
	r, err := Parse("r.md", []byte(sampleReport))
	require.NoError(t, err)

	sec := r.Section("Monte Carlo Simulation Results")
	require.NotNil(t, sec)
	require.Len(t, sec.Tables, 1)

	tbl := sec.Tables[0]
	assert.Equal(t, []string{"Position", "Score", "Probability"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"Northern Approach", "8.1", "68.2%"}, tbl.Rows[0])

	// The table position points at its header row in the source.
	assert.Equal(t, 22, tbl.Pos.Line)
	assert.Greater(t, tbl.Pos.Line, sec.Heading.Line)
}

func TestParseLinks(t *testing.T) {
	r, err := Parse("r.md", []byte(sampleReport))
	require.NoError(t, err)

	var internal, external []core.Link
	for _, l := range r.Links {
		if l.Internal {
			internal = append(internal, l)
		} else {
			external = append(external, l)
		}
	}
	require.Len(t, internal, 1)
	assert.Equal(t, "archive/2024-pacific.md", internal[0].Target)
	require.NotEmpty(t, external)
	assert.Contains(t, external[0].Target, "example.org/methodology")
}

func TestParseEmptyDocument(t *testing.T) {
	r, err := Parse("empty.md", nil)
	require.NoError(t, err)
	assert.Empty(t, r.Sections)
	assert.Equal(t, "empty", r.Title)
}

func TestParseNoHeadings(t *testing.T) {
	r, err := Parse("notes.md", []byte("Just a fragment of analyst prose.\nNo headings at all.\n"))
	require.NoError(t, err)
	require.Len(t, r.Sections, 1)
	assert.True(t, r.Sections[0].IsPreamble())
	assert.Contains(t, r.Sections[0].Body, "analyst prose")
}

func TestParseSetextHeading(t *testing.T) {
	src := "Executive Summary\n=================\n\nBody text.\n"
	r, err := Parse("r.md", []byte(src))
	require.NoError(t, err)
	require.Len(t, r.Sections, 1)
	assert.Equal(t, "Executive Summary", r.Sections[0].Title)
	assert.Equal(t, 1, r.Sections[0].Level)
}

func TestParseCRLF(t *testing.T) {
	src := strings.ReplaceAll("## Executive Summary\n\n- **Score**: 8.0/10\n", "\n", "\r\n")
	r, err := Parse("r.md", []byte(src))
	require.NoError(t, err)
	require.Len(t, r.Sections, 1)
	require.Len(t, r.Sections[0].Metrics, 1)
	assert.InDelta(t, 8.0, r.Sections[0].Metrics[0].Value, 0.001)
}

func TestParseHeadingInCodeFence(t *testing.T) {
	src := "## Methodology\n\n```\n## not a heading\n```\n"
	r, err := Parse("r.md", []byte(src))
	require.NoError(t, err)
	require.Len(t, r.Sections, 1)
}

func TestParseDuplicateHeadings(t *testing.T) {
	src := "## Conclusion\n\nFirst.\n\n## Conclusion\n\nSecond.\n"
	r, err := Parse("r.md", []byte(src))
	require.NoError(t, err)
	require.Len(t, r.Sections, 2)
	assert.Equal(t, "First.", r.Sections[0].Body)
	assert.Equal(t, "Second.", r.Sections[1].Body)
}

func TestParseMetricPositionAfterBlankLines(t *testing.T) {
	src := "# Title\n\n## Executive Summary\n\n\n- **Success Probability**: 74.9%\n"
	r, err := Parse("r.md", []byte(src))
	require.NoError(t, err)

	sec := r.Section("Executive Summary")
	require.NotNil(t, sec)
	require.Len(t, sec.Metrics, 1)
	assert.Equal(t, 6, sec.Metrics[0].Pos.Line)
}

func TestParseBlankHeading(t *testing.T) {
	src := "## First\n\nbody one\n\n##\n\nbody two\n"
	r, err := Parse("r.md", []byte(src))
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(r.Sections), 2)
	assert.Contains(t, r.Sections[0].Body, "body one")
	for i := 1; i < len(r.Sections); i++ {
		prev, cur := r.Sections[i-1], r.Sections[i]
		assert.False(t, cur.Span.Start.Before(prev.Span.End),
			"section %q overlaps %q", cur.Title, prev.Title)
	}
}

func TestParseRejectsUnknownFrontmatterField(t *testing.T) {
	src := "---\ntitle: x\nclasification: SECRET\n---\n\n# X\n"
	_, err := Parse("r.md", []byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frontmatter")
}

func TestExtractFrontmatterAbsent(t *testing.T) {
	res, err := ExtractFrontmatter([]byte("# No Header\n"))
	require.NoError(t, err)
	assert.False(t, res.HasYAML)
	assert.Equal(t, 0, res.Offset)
}
