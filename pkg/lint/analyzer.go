package lint

import (
	"sort"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/schema"
)

// Analyzer runs lint rules against parsed reports.
type Analyzer struct {
	config *Config
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// Analyze runs all enabled registry rules against the report. Diagnostics
// come back ordered by position, then rule ID, so output is deterministic.
func (a *Analyzer) Analyze(doc *core.Report, profile *schema.Profile) []Diagnostic {
	if doc == nil {
		return nil
	}

	profileName := ""
	if profile != nil {
		profileName = profile.Name
	}

	var diagnostics []Diagnostic
	for _, rule := range GetAll() {
		if a.config.IsDisabled(rule.ID) {
			continue
		}
		if !ruleAppliesTo(rule, profileName) {
			continue
		}

		opts := a.config.GetRuleOptions(rule.ID)
		diags := rule.Check(doc, profile, opts)

		for i := range diags {
			diags[i].Severity = a.config.GetSeverity(rule.ID, diags[i].Severity)
		}
		diagnostics = append(diagnostics, diags...)
	}

	SortDiagnostics(diagnostics)
	return diagnostics
}

// SortDiagnostics orders diagnostics by position, then rule ID.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Pos != diags[j].Pos {
			return diags[i].Pos.Before(diags[j].Pos)
		}
		return diags[i].RuleID < diags[j].RuleID
	})
}

// FilterBySeverity returns the diagnostics at or above the threshold.
// Severity values order error < warning < info < hint.
func FilterBySeverity(diags []Diagnostic, threshold Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Severity <= threshold {
			out = append(out, d)
		}
	}
	return out
}
