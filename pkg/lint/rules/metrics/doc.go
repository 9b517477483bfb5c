// Package metrics provides lint rules for the figures stated in reports.
//
// Rules in this package:
//   - MT01: Percentage outside the 0-100 range
//   - MT02: Score exceeds its declared scale
//   - MT03: Metric value looks numeric but does not parse
//   - MT04: Range bounds are inverted
package metrics
