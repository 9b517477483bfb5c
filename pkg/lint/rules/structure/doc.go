// Package structure provides lint rules for report section structure.
//
// Rules in this package:
//   - ST01: Required section is missing
//   - ST02: Sections out of canonical profile order
//   - ST03: Section appears more than once
//   - ST04: Required section is empty or lacks a required figure
//   - ST05: Heading level jumps (e.g. H2 directly to H4)
package structure
