package corpus

import (
	"sort"

	"github.com/dia3-labs/brief/pkg/lint"
)

// Analyzer runs corpus rules against a Context.
type Analyzer struct {
	config *lint.Config
}

// NewAnalyzer creates a corpus analyzer. The lint.Config is shared with the
// document analyzer so one disable list covers both rule kinds.
func NewAnalyzer(config *lint.Config) *Analyzer {
	if config == nil {
		config = lint.NewConfig()
	}
	return &Analyzer{config: config}
}

// Analyze runs all enabled corpus rules. Diagnostics come back ordered by
// path, then position, then rule ID.
func (a *Analyzer) Analyze(ctx Context) []Diagnostic {
	if ctx == nil {
		return nil
	}

	var diagnostics []Diagnostic
	for _, rule := range GetAll() {
		if a.config.IsDisabled(rule.ID) {
			continue
		}
		diags := rule.Check(ctx)
		for i := range diags {
			diags[i].Severity = a.config.GetSeverity(rule.ID, diags[i].Severity)
		}
		diagnostics = append(diagnostics, diags...)
	}

	sort.SliceStable(diagnostics, func(i, j int) bool {
		if diagnostics[i].Path != diagnostics[j].Path {
			return diagnostics[i].Path < diagnostics[j].Path
		}
		if diagnostics[i].Pos != diagnostics[j].Pos {
			return diagnostics[i].Pos.Before(diagnostics[j].Pos)
		}
		return diagnostics[i].RuleID < diagnostics[j].RuleID
	})
	return diagnostics
}
