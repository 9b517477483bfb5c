package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := NewSQLiteStore(nil)
	require.NoError(t, s.Open(":memory:"))
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRunLifecycle(t *testing.T) {
	s := openTestStore(t)

	run, err := s.BeginRun(RunKindIndex)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)

	require.NoError(t, s.EndRun(run.ID, RunStatusCompleted, 12, 3))

	got, err := s.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, got.Status)
	assert.Equal(t, 12, got.Reports)
	assert.Equal(t, 3, got.Diagnostics)
	require.NotNil(t, got.CompletedAt)
}

func TestEndRunUnknownID(t *testing.T) {
	s := openTestStore(t)
	err := s.EndRun("no-such-run", RunStatusFailed, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)

	first, err := s.BeginRun(RunKindIndex)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := s.BeginRun(RunKindLint)
	require.NoError(t, err)

	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)
}

func TestUpsertReport(t *testing.T) {
	s := openTestStore(t)

	rec := ReportRecord{
		Path:           "pacific/positioning.md",
		Title:          "Pacific Positioning",
		Profile:        "strategic-positioning",
		Classification: "UNCLASSIFIED",
		Scenario:       "pacific-2026",
		Date:           "2025-06-14",
		ContentHash:    "abc123",
		SectionCount:   9,
		MetricCount:    4,
	}

	id, err := s.UpsertReport(rec)
	require.NoError(t, err)
	assert.Positive(t, id)

	// Same path updates in place.
	rec.Title = "Pacific Positioning, Revised"
	rec.ContentHash = "def456"
	id2, err := s.UpsertReport(rec)
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	got, err := s.GetReport("pacific/positioning.md")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Pacific Positioning, Revised", got.Title)
	assert.Equal(t, "def456", got.ContentHash)

	missing, err := s.GetReport("nope.md")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListReportsOrderedByPath(t *testing.T) {
	s := openTestStore(t)

	for _, path := range []string{"zulu.md", "alpha.md", "mid/report.md"} {
		_, err := s.UpsertReport(ReportRecord{Path: path})
		require.NoError(t, err)
	}

	recs, err := s.ListReports()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "alpha.md", recs[0].Path)
	assert.Equal(t, "mid/report.md", recs[1].Path)
	assert.Equal(t, "zulu.md", recs[2].Path)
}

func TestReplaceSections(t *testing.T) {
	s := openTestStore(t)
	id, err := s.UpsertReport(ReportRecord{Path: "r.md"})
	require.NoError(t, err)

	secs := []SectionRecord{
		{Title: "Executive Summary", Level: 2, Position: 0, Words: 40},
		{Title: "Conclusion", Level: 2, Position: 1, Words: 25},
	}
	require.NoError(t, s.ReplaceSections(id, secs))

	// Replacing with fewer sections drops the old ones.
	require.NoError(t, s.ReplaceSections(id, secs[:1]))

	var count int
	require.NoError(t, s.db.QueryRow(
		`SELECT COUNT(*) FROM sections WHERE report_id = ?`, id).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestMetricHistory(t *testing.T) {
	s := openTestStore(t)
	id, err := s.UpsertReport(ReportRecord{Path: "r.md", Scenario: "pacific-2026"})
	require.NoError(t, err)

	base := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	metrics := []MetricSample{
		{Scenario: "pacific-2026", Key: "Success Probability", Value: 74.9, Unit: "percent", RecordedAt: base},
		{Scenario: "pacific-2026", Key: "Success Probability", Value: 72.3, Unit: "percent", RecordedAt: base.Add(time.Hour)},
		{Scenario: "pacific-2026", Key: "Overall Score", Value: 7.2, Unit: "score", RecordedAt: base},
		{Scenario: "baltic-2026", Key: "Success Probability", Value: 12.0, Unit: "percent", RecordedAt: base},
	}
	require.NoError(t, s.ReplaceMetrics(id, metrics))

	history, err := s.MetricHistory("pacific-2026", "success probability", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 72.3, history[0].Value)
	assert.Equal(t, 74.9, history[1].Value)

	keys, err := s.MetricKeys("pacific-2026")
	require.NoError(t, err)
	assert.Equal(t, []string{"Overall Score", "Success Probability"}, keys)
}

func TestRecordDiagnostics(t *testing.T) {
	s := openTestStore(t)
	run, err := s.BeginRun(RunKindLint)
	require.NoError(t, err)
	id, err := s.UpsertReport(ReportRecord{Path: "r.md"})
	require.NoError(t, err)

	diags := []DiagnosticRecord{
		{RuleID: "ST01", Severity: "error", Line: 1, Col: 1, Message: "required section missing"},
		{RuleID: "MT01", Severity: "error", Line: 9, Col: 1, Message: "percentage out of range"},
	}
	require.NoError(t, s.RecordDiagnostics(run.ID, id, diags))
	require.NoError(t, s.RecordDiagnostics(run.ID, id, nil))

	var count int
	require.NoError(t, s.db.QueryRow(
		`SELECT COUNT(*) FROM diagnostics WHERE run_id = ?`, run.ID).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestMigrationVersion(t *testing.T) {
	s := openTestStore(t)
	version, err := s.MigrationVersion()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, version, int64(1))
}

func TestUnopenedStore(t *testing.T) {
	s := NewSQLiteStore(nil)
	_, err := s.BeginRun(RunKindIndex)
	require.Error(t, err)
	require.Error(t, s.Migrate())
}
