package engine

import (
	"fmt"
	"time"

	"github.com/dia3-labs/brief/pkg/core"
)

// IndexResult contains statistics about an indexing pass.
type IndexResult struct {
	ReportsTotal   int
	ReportsChanged int
	ReportsSkipped int
	RunID          string
	Duration       time.Duration
}

// Summary returns a human-readable summary.
func (r *IndexResult) Summary() string {
	return fmt.Sprintf("Reports: %d total (%d changed, %d skipped) | Duration: %s",
		r.ReportsTotal, r.ReportsChanged, r.ReportsSkipped,
		r.Duration.Round(time.Millisecond))
}

// Index persists the discovered corpus to the store: report records plus
// their section rows and metric samples. Reports whose content hash is
// unchanged since the last pass are skipped.
func (e *Engine) Index() (*IndexResult, error) {
	if e.store == nil {
		return nil, fmt.Errorf("no index store configured")
	}
	if e.corpus == nil {
		if _, err := e.Discover(); err != nil {
			return nil, err
		}
	}
	start := time.Now()

	run, err := e.store.BeginRun("index")
	if err != nil {
		return nil, fmt.Errorf("failed to begin index run: %w", err)
	}

	result := &IndexResult{RunID: run.ID}
	for _, doc := range e.corpus.Reports {
		result.ReportsTotal++

		hash := e.corpus.ContentHash(doc.Path)
		if prev, err := e.store.GetReport(doc.Path); err == nil && prev != nil && prev.ContentHash == hash {
			result.ReportsSkipped++
			continue
		}

		if err := e.indexReport(doc, hash); err != nil {
			_ = e.store.EndRun(run.ID, core.RunStatusFailed, result.ReportsChanged, 0)
			return nil, err
		}
		result.ReportsChanged++
	}

	if err := e.store.EndRun(run.ID, core.RunStatusCompleted, result.ReportsTotal, 0); err != nil {
		return nil, fmt.Errorf("failed to finalize index run: %w", err)
	}

	result.Duration = time.Since(start)
	e.logger.Info("index completed",
		"reports_total", result.ReportsTotal,
		"reports_changed", result.ReportsChanged,
		"reports_skipped", result.ReportsSkipped,
		"duration_ms", result.Duration.Milliseconds())
	return result, nil
}

func (e *Engine) indexReport(doc *core.Report, hash string) error {
	metrics := doc.Metrics()

	sections := 0
	for _, sec := range doc.Sections {
		if !sec.IsPreamble() {
			sections++
		}
	}

	id, err := e.store.UpsertReport(core.ReportRecord{
		Path:           doc.Path,
		Title:          doc.Title,
		Profile:        doc.Profile,
		Classification: doc.Front.Classification,
		Scenario:       doc.Front.Scenario,
		Date:           doc.Front.Date,
		ContentHash:    hash,
		SectionCount:   sections,
		MetricCount:    len(metrics),
	})
	if err != nil {
		return err
	}

	var secRecs []core.SectionRecord
	pos := 0
	for _, sec := range doc.Sections {
		if sec.IsPreamble() {
			continue
		}
		secRecs = append(secRecs, core.SectionRecord{
			Title:    sec.Title,
			Level:    sec.Level,
			Position: pos,
			Words:    sec.WordCount(),
		})
		pos++
	}
	if err := e.store.ReplaceSections(id, secRecs); err != nil {
		return err
	}

	var samples []core.MetricSample
	for _, m := range metrics {
		if !m.Valid || m.Key == "" || m.Interval != nil {
			continue
		}
		samples = append(samples, core.MetricSample{
			Scenario: doc.Front.Scenario,
			Section:  m.Section,
			Key:      m.Key,
			Value:    m.Value,
			Unit:     string(m.Unit),
		})
	}
	return e.store.ReplaceMetrics(id, samples)
}
