package core

import "strings"

// =============================================================================
// Severity
// =============================================================================

// Severity ranks lint diagnostics. Error is the only level that fails a
// lint run by default; the rest are advisory.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// ParseSeverity maps a config string to a Severity, case-insensitively.
// Unrecognized input yields SeverityWarning and false.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	case "hint":
		return SeverityHint, true
	default:
		return SeverityWarning, false
	}
}

// =============================================================================
// RuleInfo
// =============================================================================

// RuleInfo describes a lint rule for the rules command and JSON output.
// It carries documentation only; the rule's check logic lives in the
// linter package.
type RuleInfo struct {
	ID              string   `json:"id"`   // stable identifier, e.g. "ST01"
	Name            string   `json:"name"` // dotted name, e.g. "structure.missing_section"
	Group           string   `json:"group"`
	Description     string   `json:"description"`
	DefaultSeverity Severity `json:"default_severity"`
	ConfigKeys      []string `json:"config_keys,omitempty"`
	Profiles        []string `json:"profiles,omitempty"` // document rules only
	Type            string   `json:"type"`               // "document" or "corpus"

	Rationale   string `json:"rationale,omitempty"`
	BadExample  string `json:"bad_example,omitempty"`
	GoodExample string `json:"good_example,omitempty"`
	Fix         string `json:"fix,omitempty"`
}
