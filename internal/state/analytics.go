package state

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
)

// exportHistoryLimit caps the samples exported per scenario/key pair.
const exportHistoryLimit = 10000

// ExportAnalytics writes the index to a DuckDB file for ad hoc SQL
// analysis. The export is a snapshot: existing tables are replaced.
func ExportAnalytics(store Store, path string) error {
	reports, err := store.ListReports()
	if err != nil {
		return fmt.Errorf("failed to read index for export: %w", err)
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open analytics database: %w", err)
	}
	defer db.Close()

	if err := exportReports(db, store, reports); err != nil {
		return err
	}
	return nil
}

func exportReports(db *sql.DB, store Store, reports []ReportRecord) error {
	stmts := []string{
		`DROP TABLE IF EXISTS metrics`,
		`DROP TABLE IF EXISTS reports`,
		`CREATE TABLE reports (
		   path VARCHAR, title VARCHAR, profile VARCHAR, classification VARCHAR,
		   scenario VARCHAR, date VARCHAR, section_count INTEGER, metric_count INTEGER,
		   indexed_at TIMESTAMP
		 )`,
		`CREATE TABLE metrics (
		   report_path VARCHAR, scenario VARCHAR, section VARCHAR, key VARCHAR,
		   value DOUBLE, unit VARCHAR, recorded_at TIMESTAMP
		 )`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to prepare analytics schema: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin analytics export: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range reports {
		_, err := tx.Exec(
			`INSERT INTO reports VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.Path, rec.Title, rec.Profile, rec.Classification,
			rec.Scenario, rec.Date, rec.SectionCount, rec.MetricCount, rec.IndexedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to export report %s: %w", rec.Path, err)
		}
	}

	// Metric samples are keyed by scenario in the index; walk each
	// report's scenario once.
	seen := make(map[string]bool)
	for _, rec := range reports {
		if rec.Scenario == "" || seen[rec.Scenario] {
			continue
		}
		seen[rec.Scenario] = true

		samples, err := scenarioSamples(store, rec.Scenario)
		if err != nil {
			return err
		}
		for _, m := range samples {
			_, err := tx.Exec(
				`INSERT INTO metrics VALUES (?, ?, ?, ?, ?, ?, ?)`,
				rec.Path, m.Scenario, m.Section, m.Key, m.Value, m.Unit, m.RecordedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to export metric %s: %w", m.Key, err)
			}
		}
	}
	return tx.Commit()
}

func scenarioSamples(store Store, scenario string) ([]MetricSample, error) {
	// The Store surface is keyed by (scenario, key); collect every key by
	// querying with the wildcard the backends share.
	type keyLister interface {
		MetricKeys(scenario string) ([]string, error)
	}
	lister, ok := store.(keyLister)
	if !ok {
		return nil, fmt.Errorf("store does not support metric enumeration")
	}

	keys, err := lister.MetricKeys(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate metrics for %s: %w", scenario, err)
	}

	var samples []MetricSample
	for _, key := range keys {
		history, err := store.MetricHistory(scenario, key, exportHistoryLimit)
		if err != nil {
			return nil, err
		}
		samples = append(samples, history...)
	}
	return samples, nil
}
