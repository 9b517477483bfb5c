// Package corpus provides cross-report lint rules: checks that only make
// sense over the whole briefing corpus, such as duplicate titles, broken
// internal links, and metric disagreement between reports.
//
// It mirrors pkg/lint's data-driven registry, but rules receive a Context
// over the discovered corpus instead of a single document.
package corpus

import (
	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/token"
)

// Severity is re-exported from core, as in pkg/lint.
type Severity = core.Severity

// Diagnostic is a corpus-level lint finding, attributed to a report path.
type Diagnostic struct {
	RuleID   string
	Severity Severity
	Message  string
	Path     string // corpus-relative report path the finding applies to
	Pos      token.Position
}

// Context provides access to corpus data for corpus-level rules.
type Context interface {
	// Reports returns all parsed reports ordered by path.
	Reports() []*core.Report

	// Report returns a report by corpus-relative path, or nil.
	Report(path string) *core.Report

	// IndexDocument returns the corpus index report (the document listing
	// all reports, typically README.md), or nil when the corpus has none.
	IndexDocument() *core.Report

	// Config returns the corpus health configuration.
	Config() Config
}

// Config holds configurable thresholds for corpus rules.
type Config struct {
	// MetricDriftTolerance is the allowed absolute disagreement, in value
	// units, between the same scenario/metric pair in different reports
	// before CP04 fires.
	MetricDriftTolerance float64

	// IndexDocPath is the corpus-relative path of the index document.
	IndexDocPath string
}

// DefaultConfig returns the default corpus rule configuration.
func DefaultConfig() Config {
	return Config{
		MetricDriftTolerance: 5.0,
		IndexDocPath:         "README.md",
	}
}

// RuleDef is a data-driven corpus rule definition.
type RuleDef struct {
	ID          string
	Name        string
	Group       string
	Description string
	Severity    Severity
	Check       func(ctx Context) []Diagnostic
	ConfigKeys  []string

	Rationale   string
	BadExample  string
	GoodExample string
	Fix         string
}

// GetRuleInfo extracts metadata from a corpus RuleDef.
func GetRuleInfo(def RuleDef) core.RuleInfo {
	return core.RuleInfo{
		ID:              def.ID,
		Name:            def.Name,
		Group:           def.Group,
		Description:     def.Description,
		DefaultSeverity: def.Severity,
		ConfigKeys:      def.ConfigKeys,
		Type:            "corpus",
		Rationale:       def.Rationale,
		BadExample:      def.BadExample,
		GoodExample:     def.GoodExample,
		Fix:             def.Fix,
	}
}
