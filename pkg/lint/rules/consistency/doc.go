// Package consistency provides lint rules for internal agreement between
// a report's sections.
//
// Rules in this package:
//   - CS01: Conclusion does not restate any Executive Summary figure
//   - CS02: Methodology iteration count disagrees with the results section
package consistency
