package lint

import (
	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/schema"
	"github.com/dia3-labs/brief/pkg/token"
)

// Severity re-exports for rule packages; the canonical type lives in core.
type Severity = core.Severity

// Severity levels.
const (
	SeverityError   = core.SeverityError
	SeverityWarning = core.SeverityWarning
	SeverityInfo    = core.SeverityInfo
	SeverityHint    = core.SeverityHint
)

// ParseSeverity converts a string to a Severity value.
func ParseSeverity(s string) (Severity, bool) {
	return core.ParseSeverity(s)
}

// =============================================================================
// Rule Definitions
// =============================================================================

// RuleDef is a data-driven rule definition. Rules are stateless - all
// context arrives via the Check function parameters.
type RuleDef struct {
	ID          string    // Unique identifier, e.g. "ST01"
	Name        string    // Human-readable name, e.g. "structure.missing_section"
	Group       string    // Category: "structure", "metrics", "convention", "consistency"
	Description string    // Human-readable description
	Severity    Severity  // Default severity
	Check       CheckFunc // The check function
	ConfigKeys  []string  // Configuration keys this rule accepts
	Profiles    []string  // Restrict to specific profiles; nil/empty means all

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Markdown showing the anti-pattern
	GoodExample string // Markdown showing the correct pattern
	Fix         string // How to fix violations (when not obvious)
}

// CheckFunc analyzes a parsed report against its resolved profile and
// returns diagnostics. The profile may be nil when no profile resolved;
// rules that need one must return nil in that case. The opts parameter
// contains rule-specific options from configuration.
type CheckFunc func(doc *core.Report, profile *schema.Profile, opts map[string]any) []Diagnostic

// =============================================================================
// Diagnostics
// =============================================================================

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID   string
	Severity Severity
	Message  string
	Pos      token.Position
	EndPos   token.Position // Optional: end of the problematic range
}

// =============================================================================
// Rule Interface
// =============================================================================

// Rule is the interface rule definitions satisfy once wrapped; it exists so
// tooling (the rules command, docs generation) can treat document and
// corpus rules uniformly.
type Rule interface {
	ID() string
	Name() string
	Group() string
	Description() string
	DefaultSeverity() Severity
	ConfigKeys() []string

	Rationale() string
	BadExample() string
	GoodExample() string
	Fix() string
}

// GetRuleInfo extracts metadata from a RuleDef for documentation/tooling.
func GetRuleInfo(def RuleDef) core.RuleInfo {
	return core.RuleInfo{
		ID:              def.ID,
		Name:            def.Name,
		Group:           def.Group,
		Description:     def.Description,
		DefaultSeverity: def.Severity,
		ConfigKeys:      def.ConfigKeys,
		Profiles:        def.Profiles,
		Type:            "document",
		Rationale:       def.Rationale,
		BadExample:      def.BadExample,
		GoodExample:     def.GoodExample,
		Fix:             def.Fix,
	}
}

// wrappedRuleDef adapts a RuleDef to the Rule interface.
type wrappedRuleDef struct {
	def RuleDef
}

// WrapRuleDef wraps a RuleDef to implement the Rule interface.
func WrapRuleDef(def RuleDef) Rule {
	return &wrappedRuleDef{def: def}
}

func (w *wrappedRuleDef) ID() string                { return w.def.ID }
func (w *wrappedRuleDef) Name() string              { return w.def.Name }
func (w *wrappedRuleDef) Group() string             { return w.def.Group }
func (w *wrappedRuleDef) Description() string       { return w.def.Description }
func (w *wrappedRuleDef) DefaultSeverity() Severity { return w.def.Severity }
func (w *wrappedRuleDef) ConfigKeys() []string      { return w.def.ConfigKeys }
func (w *wrappedRuleDef) Rationale() string         { return w.def.Rationale }
func (w *wrappedRuleDef) BadExample() string        { return w.def.BadExample }
func (w *wrappedRuleDef) GoodExample() string       { return w.def.GoodExample }
func (w *wrappedRuleDef) Fix() string               { return w.def.Fix }
