// Package corpusrules registers all corpus-level lint rules.
// Import this package for its side effects:
//
//	import _ "github.com/dia3-labs/brief/pkg/lint/corpus/rules"
//
// Rules in this package:
//   - CP01: Two reports share a title
//   - CP02: Internal link resolves to a missing report
//   - CP03: Report is not listed in the corpus index document
//   - CP04: Reports disagree on a scenario metric beyond tolerance
package corpusrules
