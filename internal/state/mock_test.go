package state

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Error-path behavior is the same SQL regardless of backend, so it is
// exercised against a mock connection instead of a live database.

func mockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &SQLiteStore{db: db}, mock
}

func TestBeginRunInsertFailure(t *testing.T) {
	s, mock := mockStore(t)
	mock.ExpectExec("INSERT INTO runs").WillReturnError(fmt.Errorf("disk I/O error"))

	_, err := s.BeginRun(RunKindIndex)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertReportFailure(t *testing.T) {
	s, mock := mockStore(t)
	mock.ExpectExec("INSERT INTO reports").WillReturnError(fmt.Errorf("database is locked"))

	_, err := s.UpsertReport(ReportRecord{Path: "r.md"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upsert report r.md")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceSectionsRollsBackOnInsertFailure(t *testing.T) {
	s, mock := mockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sections").WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO sections").WillReturnError(fmt.Errorf("constraint failed"))
	mock.ExpectRollback()

	err := s.ReplaceSections(7, []SectionRecord{{Title: "Executive Summary"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert section")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceMetricsRollsBackOnClearFailure(t *testing.T) {
	s, mock := mockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM metrics").WillReturnError(fmt.Errorf("no such table"))
	mock.ExpectRollback()

	err := s.ReplaceMetrics(1, []MetricSample{{Key: "Success Probability"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clear metrics")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordDiagnosticsCommit(t *testing.T) {
	s, mock := mockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO diagnostics").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.RecordDiagnostics("run-1", 1, []DiagnosticRecord{{RuleID: "ST01"}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricHistoryQueryFailure(t *testing.T) {
	s, mock := mockStore(t)
	mock.ExpectQuery("SELECT scenario, section, key").
		WillReturnError(fmt.Errorf("malformed database"))

	_, err := s.MetricHistory("pacific-2026", "Success Probability", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query metric history")
	assert.NoError(t, mock.ExpectationsWereMet())
}
