// Package convention provides lint rules for report metadata and naming
// conventions.
//
// Rules in this package:
//   - CV01: Section heading casing differs from the profile's canonical form
//   - CV02: Frontmatter date is missing or not ISO-8601
//   - CV03: Classification marking is missing or not an accepted value
//   - CV04: Report filename is not kebab-case
package convention
