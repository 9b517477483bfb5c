package engine

import (
	"fmt"
	"time"

	"github.com/dia3-labs/brief/internal/loader"
)

// DiscoveryResult contains statistics about a discovery pass.
type DiscoveryResult struct {
	ReportsTotal int
	Profiled     int // reports that resolved to a profile
	Errors       []loader.LoadError
	Duration     time.Duration
}

// HasErrors returns true if any file failed to load.
func (r *DiscoveryResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Summary returns a human-readable summary.
func (r *DiscoveryResult) Summary() string {
	return fmt.Sprintf("Reports: %d total (%d profiled, %d unreadable) | Duration: %s",
		r.ReportsTotal, r.Profiled, len(r.Errors), r.Duration.Round(time.Millisecond))
}

// Discover walks the corpus root and parses every report. It is the
// single source of truth for corpus state: lint and index operate on its
// result.
func (e *Engine) Discover() (*DiscoveryResult, error) {
	start := time.Now()
	e.logger.Info("starting discovery", "reports_dir", e.reportsDir)

	loaded, err := e.loader.Load(e.reportsDir)
	if err != nil {
		return nil, fmt.Errorf("corpus discovery failed: %w", err)
	}

	e.corpus = loaded.Corpus
	e.loadErrors = loaded.Errors

	result := &DiscoveryResult{
		ReportsTotal: len(loaded.Corpus.Reports),
		Errors:       loaded.Errors,
		Duration:     time.Since(start),
	}
	for _, doc := range loaded.Corpus.Reports {
		if e.forcedProfile != "" {
			doc.Profile = e.forcedProfile
		}
		if doc.Profile != "" {
			result.Profiled++
		}
	}

	e.logger.Info("discovery completed",
		"reports_total", result.ReportsTotal,
		"profiled", result.Profiled,
		"errors", len(result.Errors),
		"duration_ms", result.Duration.Milliseconds())
	return result, nil
}
