package state

import (
	"database/sql"
	"fmt"
	"time"
)

// UpsertReport inserts or updates a report record keyed by path, returning
// its row ID.
func (s *SQLiteStore) UpsertReport(rec ReportRecord) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}

	indexedAt := rec.IndexedAt
	if indexedAt.IsZero() {
		indexedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO reports (path, title, profile, classification, scenario, date,
		                      content_hash, section_count, metric_count, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   title = excluded.title,
		   profile = excluded.profile,
		   classification = excluded.classification,
		   scenario = excluded.scenario,
		   date = excluded.date,
		   content_hash = excluded.content_hash,
		   section_count = excluded.section_count,
		   metric_count = excluded.metric_count,
		   indexed_at = excluded.indexed_at`,
		rec.Path, rec.Title, rec.Profile, rec.Classification, rec.Scenario, rec.Date,
		rec.ContentHash, rec.SectionCount, rec.MetricCount, indexedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert report %s: %w", rec.Path, err)
	}

	var id int64
	if err := s.db.QueryRow(`SELECT id FROM reports WHERE path = ?`, rec.Path).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read report id for %s: %w", rec.Path, err)
	}
	return id, nil
}

// ReplaceSections replaces the stored section rows for a report.
func (s *SQLiteStore) ReplaceSections(reportID int64, secs []SectionRecord) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sections WHERE report_id = ?`, reportID); err != nil {
		return fmt.Errorf("failed to clear sections: %w", err)
	}
	for _, sec := range secs {
		_, err := tx.Exec(
			`INSERT INTO sections (report_id, title, level, position, words) VALUES (?, ?, ?, ?, ?)`,
			reportID, sec.Title, sec.Level, sec.Position, sec.Words,
		)
		if err != nil {
			return fmt.Errorf("failed to insert section %q: %w", sec.Title, err)
		}
	}
	return tx.Commit()
}

// ReplaceMetrics replaces the stored metric samples for a report.
func (s *SQLiteStore) ReplaceMetrics(reportID int64, metrics []MetricSample) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM metrics WHERE report_id = ?`, reportID); err != nil {
		return fmt.Errorf("failed to clear metrics: %w", err)
	}
	for _, m := range metrics {
		recordedAt := m.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = time.Now().UTC()
		}
		_, err := tx.Exec(
			`INSERT INTO metrics (report_id, scenario, section, key, value, unit, recorded_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			reportID, m.Scenario, m.Section, m.Key, m.Value, m.Unit, recordedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert metric %q: %w", m.Key, err)
		}
	}
	return tx.Commit()
}

// RecordDiagnostics appends lint findings for a run.
func (s *SQLiteStore) RecordDiagnostics(runID string, reportID int64, diags []DiagnosticRecord) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if len(diags) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, d := range diags {
		_, err := tx.Exec(
			`INSERT INTO diagnostics (run_id, report_id, rule_id, severity, line, col, message)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, reportID, d.RuleID, d.Severity, d.Line, d.Col, d.Message,
		)
		if err != nil {
			return fmt.Errorf("failed to insert diagnostic %s: %w", d.RuleID, err)
		}
	}
	return tx.Commit()
}

// ListReports returns all indexed reports ordered by path.
func (s *SQLiteStore) ListReports() ([]ReportRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, path, title, profile, classification, scenario, date,
		        content_hash, section_count, metric_count, indexed_at
		 FROM reports ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var recs []ReportRecord
	for rows.Next() {
		var rec ReportRecord
		if err := scanReport(rows, &rec); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// GetReport returns an indexed report by corpus path.
func (s *SQLiteStore) GetReport(path string) (*ReportRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	var rec ReportRecord
	err := scanReport(s.db.QueryRow(
		`SELECT id, path, title, profile, classification, scenario, date,
		        content_hash, section_count, metric_count, indexed_at
		 FROM reports WHERE path = ?`, path), &rec)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report %s: %w", path, err)
	}
	return &rec, nil
}

// MetricHistory returns samples for a scenario/key pair, newest first.
func (s *SQLiteStore) MetricHistory(scenario, key string, limit int) ([]MetricSample, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT scenario, section, key, value, unit, recorded_at
		 FROM metrics
		 WHERE scenario = ? AND key = ? COLLATE NOCASE
		 ORDER BY recorded_at DESC, id DESC LIMIT ?`,
		scenario, key, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric history: %w", err)
	}
	defer rows.Close()

	var samples []MetricSample
	for rows.Next() {
		var m MetricSample
		err := rows.Scan(&m.Scenario, &m.Section, &m.Key, &m.Value, &m.Unit, &m.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metric sample: %w", err)
		}
		samples = append(samples, m)
	}
	return samples, rows.Err()
}

// MetricKeys returns the distinct metric keys recorded for a scenario.
func (s *SQLiteStore) MetricKeys(scenario string) ([]string, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT DISTINCT key FROM metrics WHERE scenario = ? ORDER BY key`, scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to list metric keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan metric key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func scanReport(row rowScanner, rec *ReportRecord) error {
	return row.Scan(&rec.ID, &rec.Path, &rec.Title, &rec.Profile, &rec.Classification,
		&rec.Scenario, &rec.Date, &rec.ContentHash, &rec.SectionCount,
		&rec.MetricCount, &rec.IndexedAt)
}
