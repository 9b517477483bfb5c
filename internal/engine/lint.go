package engine

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/lint/corpus"
	"github.com/dia3-labs/brief/pkg/token"
)

// Finding is a diagnostic attributed to a report, from either a document
// rule or a corpus rule.
type Finding struct {
	Path     string
	RuleID   string
	Severity core.Severity
	Message  string
	Pos      token.Position
}

// LintResult is the outcome of linting the whole corpus.
type LintResult struct {
	Findings []Finding
	Counts   map[core.Severity]int
	RunID    string // recorded run, empty when no store is configured
	Duration time.Duration
}

// CountAtOrAbove returns the number of findings at or above the severity
// threshold.
func (r *LintResult) CountAtOrAbove(threshold core.Severity) int {
	n := 0
	for sev, count := range r.Counts {
		if sev <= threshold {
			n += count
		}
	}
	return n
}

// LintAll lints every discovered report plus the corpus as a whole.
// Findings come back ordered by path, then position, then rule ID,
// regardless of worker scheduling. When a store is configured the run and
// its findings are recorded.
func (e *Engine) LintAll(ctx context.Context) (*LintResult, error) {
	if e.corpus == nil {
		if _, err := e.Discover(); err != nil {
			return nil, err
		}
	}
	start := time.Now()

	reports := e.corpus.Reports
	perDoc := make([][]lint.Diagnostic, len(reports))

	analyzer := lint.NewAnalyzer(e.lintConfig)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, doc := range reports {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perDoc[i] = analyzer.Analyze(doc, e.profileFor(doc))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("lint aborted: %w", err)
	}

	var findings []Finding
	for i, doc := range reports {
		for _, d := range perDoc[i] {
			findings = append(findings, Finding{
				Path:     doc.Path,
				RuleID:   d.RuleID,
				Severity: d.Severity,
				Message:  d.Message,
				Pos:      d.Pos,
			})
		}
	}

	corpusAnalyzer := corpus.NewAnalyzer(e.lintConfig)
	for _, d := range corpusAnalyzer.Analyze(e.corpusContext()) {
		findings = append(findings, Finding{
			Path:     d.Path,
			RuleID:   d.RuleID,
			Severity: d.Severity,
			Message:  d.Message,
			Pos:      d.Pos,
		})
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Path != findings[j].Path {
			return findings[i].Path < findings[j].Path
		}
		if findings[i].Pos != findings[j].Pos {
			return findings[i].Pos.Before(findings[j].Pos)
		}
		return findings[i].RuleID < findings[j].RuleID
	})

	result := &LintResult{
		Findings: findings,
		Counts:   make(map[core.Severity]int),
		Duration: time.Since(start),
	}
	for _, f := range findings {
		result.Counts[f.Severity]++
	}

	if e.store != nil {
		if err := e.recordLint(result); err != nil {
			return nil, err
		}
	}

	e.logger.Info("lint completed",
		"reports", len(reports),
		"findings", len(findings),
		"duration_ms", result.Duration.Milliseconds())
	return result, nil
}

// recordLint persists a lint run and its findings.
func (e *Engine) recordLint(result *LintResult) error {
	run, err := e.store.BeginRun("lint")
	if err != nil {
		return fmt.Errorf("failed to record lint run: %w", err)
	}

	byPath := make(map[string][]core.DiagnosticRecord)
	for _, f := range result.Findings {
		byPath[f.Path] = append(byPath[f.Path], core.DiagnosticRecord{
			RuleID:   f.RuleID,
			Severity: f.Severity.String(),
			Line:     f.Pos.Line,
			Col:      f.Pos.Col,
			Message:  f.Message,
		})
	}

	for path, diags := range byPath {
		var reportID int64
		if rec, err := e.store.GetReport(path); err == nil && rec != nil {
			reportID = rec.ID
		}
		if err := e.store.RecordDiagnostics(run.ID, reportID, diags); err != nil {
			return fmt.Errorf("failed to record findings for %s: %w", path, err)
		}
	}

	if err := e.store.EndRun(run.ID, core.RunStatusCompleted,
		len(e.corpus.Reports), len(result.Findings)); err != nil {
		return fmt.Errorf("failed to finalize lint run: %w", err)
	}
	result.RunID = run.ID
	return nil
}

// corpusContext adapts the discovered corpus to the corpus rule Context.
type corpusContext struct {
	engine *Engine
}

func (e *Engine) corpusContext() corpus.Context {
	return &corpusContext{engine: e}
}

func (c *corpusContext) Reports() []*core.Report {
	return c.engine.corpus.Reports
}

func (c *corpusContext) Report(path string) *core.Report {
	return c.engine.corpus.Report(path)
}

func (c *corpusContext) IndexDocument() *core.Report {
	return c.engine.corpus.Report(c.engine.corpusConfig.IndexDocPath)
}

func (c *corpusContext) Config() corpus.Config {
	return c.engine.corpusConfig
}
