// Package lint provides the document lint engine for briefing reports.
//
// Rules are data-driven RuleDef values registered from init() functions in
// the pkg/lint/rules/... packages; importing a rules package for side
// effects makes its rules available:
//
//	import _ "github.com/dia3-labs/brief/pkg/lint/rules" // register all rules
//
// The Analyzer runs every enabled rule against a parsed report and its
// resolved profile, applying severity overrides and rule options from
// configuration. Corpus-wide rules (cross-report checks) live in
// pkg/lint/corpus.
package lint
