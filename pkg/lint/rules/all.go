// Package rules registers all document lint rules.
// Import this package for its side effects to make every rule available:
//
//	import _ "github.com/dia3-labs/brief/pkg/lint/rules"
package rules

import (
	// Blank imports trigger init() functions that register rules with the
	// global registry.
	_ "github.com/dia3-labs/brief/pkg/lint/rules/consistency" // registers CS* rules
	_ "github.com/dia3-labs/brief/pkg/lint/rules/convention"  // registers CV* rules
	_ "github.com/dia3-labs/brief/pkg/lint/rules/metrics"     // registers MT* rules
	_ "github.com/dia3-labs/brief/pkg/lint/rules/structure"   // registers ST* rules
)
