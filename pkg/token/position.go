// Package token provides source positions for briefing documents.
// Positions are 1-based for lines and columns, matching editor conventions.
package token

import "fmt"

// Position is a location in a source document.
type Position struct {
	Line   int // 1-based line number
	Col    int // 1-based column (byte offset within the line)
	Offset int // 0-based byte offset from the start of the document
}

// String returns the position as "line:col".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// IsValid reports whether the position refers to an actual location.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Before reports whether p occurs before q in the document.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// Span is a contiguous range in a source document.
type Span struct {
	Start Position
	End   Position
}

// Contains reports whether the span contains the given position.
func (s Span) Contains(p Position) bool {
	return !p.Before(s.Start) && p.Before(s.End)
}
