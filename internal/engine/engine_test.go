package engine

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dia3-labs/brief/internal/state"
	"github.com/dia3-labs/brief/pkg/core"
	_ "github.com/dia3-labs/brief/pkg/lint/rules"
)

const cleanReport = `---
date: 2025-06-14
classification: UNCLASSIFIED
scenario: pacific-posture
---

# Pacific Posture Assessment

## Executive Summary

- Success Probability: 74.9%

## Geographic Analysis

Terrain constrains the northern approach.

## Monte Carlo Simulation Results

- Iterations: 10,000
- Confidence Interval: 70.2-79.6%

## Optimal Strategic Positions

Forward basing on the eastern arc.

## Strategic Recommendations

Reinforce the eastern arc first.

## Methodology

Simulation over historical engagement data.

## Conclusion

- Success Probability: 74.9%
`

const messyReport = `---
date: 2025-06-14
classification: UNCLASSIFIED
scenario: coastal-defense
---

# Coastal Defense Review

## results overview

- Success Probability: 174.9%
`

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func openTestStore(t *testing.T) *state.SQLiteStore {
	t.Helper()
	s := state.NewSQLiteStore(nil)
	require.NoError(t, s.Open(":memory:"))
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestEngine(t *testing.T, root string, store core.Store) *Engine {
	t.Helper()
	e, err := New(Config{ReportsDir: root, Store: store})
	require.NoError(t, err)
	return e
}

func TestDiscover(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"pacific/assessment.md": cleanReport,
		"coastal.md":            messyReport,
		"broken.md":             "---\nbogus_field: 1\n---\n\n# B\n",
	})

	e := newTestEngine(t, root, nil)
	result, err := e.Discover()
	require.NoError(t, err)

	assert.Equal(t, 2, result.ReportsTotal)
	assert.Equal(t, 1, result.Profiled)
	assert.True(t, result.HasErrors())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "broken.md", result.Errors[0].Path)
	assert.Contains(t, result.Summary(), "2 total")

	require.NotNil(t, e.Corpus())
	assert.NotNil(t, e.Corpus().Report("pacific/assessment.md"))
}

func TestNewRejectsUnknownProfile(t *testing.T) {
	_, err := New(Config{ReportsDir: ".", Profile: "no-such-profile"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown profile")
}

func TestLintAllFindingsOrdered(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"pacific/assessment.md": cleanReport,
		"coastal.md":            messyReport,
	})

	e := newTestEngine(t, root, nil)
	result, err := e.LintAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.RunID)

	sorted := sort.SliceIsSorted(result.Findings, func(i, j int) bool {
		if result.Findings[i].Path != result.Findings[j].Path {
			return result.Findings[i].Path < result.Findings[j].Path
		}
		if result.Findings[i].Pos != result.Findings[j].Pos {
			return result.Findings[i].Pos.Before(result.Findings[j].Pos)
		}
		return result.Findings[i].RuleID < result.Findings[j].RuleID
	})
	assert.True(t, sorted)

	rulesFor := make(map[string]map[string]bool)
	for _, f := range result.Findings {
		if rulesFor[f.Path] == nil {
			rulesFor[f.Path] = make(map[string]bool)
		}
		rulesFor[f.Path][f.RuleID] = true
	}
	// The messy report has an out-of-range percentage and a heading
	// that is not title case.
	assert.True(t, rulesFor["coastal.md"]["MT01"])
	assert.True(t, rulesFor["coastal.md"]["CV01"])
	assert.False(t, rulesFor["pacific/assessment.md"]["MT01"])

	total := 0
	for _, n := range result.Counts {
		total += n
	}
	assert.Equal(t, len(result.Findings), total)
	assert.GreaterOrEqual(t, result.CountAtOrAbove(core.SeverityWarning),
		result.Counts[core.SeverityError])
}

func TestLintAllRecordsRun(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"coastal.md": messyReport,
	})
	store := openTestStore(t)

	e := newTestEngine(t, root, store)
	_, err := e.Index()
	require.NoError(t, err)

	result, err := e.LintAll(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, result.RunID)

	run, err := store.GetRun(result.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, state.RunKindLint, run.Kind)
	assert.Equal(t, core.RunStatusCompleted, run.Status)
	assert.Equal(t, 1, run.Reports)
	assert.Equal(t, len(result.Findings), run.Diagnostics)
}

func TestIndexSkipsUnchanged(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"pacific/assessment.md": cleanReport,
		"coastal.md":            messyReport,
	})
	store := openTestStore(t)
	e := newTestEngine(t, root, store)

	first, err := e.Index()
	require.NoError(t, err)
	assert.Equal(t, 2, first.ReportsTotal)
	assert.Equal(t, 2, first.ReportsChanged)
	assert.Equal(t, 0, first.ReportsSkipped)
	assert.NotEmpty(t, first.RunID)

	second, err := e.Index()
	require.NoError(t, err)
	assert.Equal(t, 0, second.ReportsChanged)
	assert.Equal(t, 2, second.ReportsSkipped)

	// Touching one report re-indexes only that report.
	updated := messyReport + "\nAmended after review.\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "coastal.md"), []byte(updated), 0o644))
	_, err = e.Discover()
	require.NoError(t, err)

	third, err := e.Index()
	require.NoError(t, err)
	assert.Equal(t, 1, third.ReportsChanged)
	assert.Equal(t, 1, third.ReportsSkipped)
	assert.Contains(t, third.Summary(), "1 changed")
}

func TestIndexPersistsRecords(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"pacific/assessment.md": cleanReport,
	})
	store := openTestStore(t)
	e := newTestEngine(t, root, store)

	_, err := e.Index()
	require.NoError(t, err)

	rec, err := store.GetReport("pacific/assessment.md")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Pacific Posture Assessment", rec.Title)
	assert.Equal(t, "strategic-positioning", rec.Profile)
	assert.Equal(t, "pacific-posture", rec.Scenario)
	assert.Equal(t, 8, rec.SectionCount)
	assert.NotZero(t, rec.MetricCount)

	history, err := store.MetricHistory("pacific-posture", "Success Probability", 10)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.InDelta(t, 74.9, history[0].Value, 0.001)
}

func TestIndexRequiresStore(t *testing.T) {
	root := writeCorpus(t, map[string]string{"a.md": "# A\n"})
	e := newTestEngine(t, root, nil)
	_, err := e.Index()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no index store")
}

func TestForcedProfile(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"plain.md": "# Plain Note\n\nNothing to match here.\n",
	})
	e, err := New(Config{ReportsDir: root, Profile: "strategic-positioning"})
	require.NoError(t, err)

	result, err := e.LintAll(context.Background())
	require.NoError(t, err)

	// The forced profile makes the structure rules apply, so the bare
	// document is missing required sections.
	found := false
	for _, f := range result.Findings {
		if f.RuleID == "ST01" {
			found = true
		}
	}
	assert.True(t, found)
}
