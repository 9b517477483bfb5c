// Package parser turns briefing documents (Markdown with optional YAML
// frontmatter) into the core document model: sections, metrics, tables, and
// links, all annotated with source positions.
//
// Parsing is total for any UTF-8 input short of invalid frontmatter: a
// document with no headings yields a single preamble section, an empty
// document yields no sections at all.
package parser

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/token"
)

// Parser parses briefing documents. The zero value is not usable; call New.
type Parser struct {
	md goldmark.Markdown
}

// New creates a Parser with GFM extensions enabled: pipe tables and
// autolinked bare URLs both carry lint-relevant data.
func New() *Parser {
	return &Parser{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

var defaultParser = New()

// Parse parses src using a shared default parser. The path is recorded on
// the report and used for filename-based checks; it is not opened.
func Parse(path string, src []byte) (*core.Report, error) {
	return defaultParser.Parse(path, src)
}

// Parse parses a single briefing document.
func (p *Parser) Parse(path string, src []byte) (*core.Report, error) {
	fm, err := ExtractFrontmatter(src)
	if err != nil {
		return nil, err
	}

	report := &core.Report{
		Path:    path,
		Title:   fm.Front.Title,
		Profile: fm.Front.Profile,
		Front:   fm.Front,
		Source:  string(fm.Body),
	}

	idx := newLineIndex(src)
	doc := p.md.Parser().Parse(text.NewReader(fm.Body))

	var headings []headingMark
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			headings = append(headings, headingMark{
				title:  textContent(node, fm.Body),
				level:  node.Level,
				offset: blockOffset(node, fm.Offset),
			})
		case *ast.Link:
			report.Links = append(report.Links, makeLink(
				textContent(node, fm.Body),
				string(node.Destination),
				linkOffset(node, fm.Offset),
				idx,
			))
		case *ast.AutoLink:
			url := string(node.URL(fm.Body))
			report.Links = append(report.Links, makeLink(url, url, linkOffset(node, fm.Offset), idx))
		}
		return ast.WalkContinue, nil
	})

	report.Sections = buildSections(headings, fm.Body, fm.Offset, len(src), idx)

	// Title falls back to the first level-1 heading, then the filename.
	if report.Title == "" {
		for _, h := range headings {
			if h.level == 1 {
				report.Title = h.title
				break
			}
		}
	}
	if report.Title == "" {
		report.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	attachTables(doc, fm.Body, fm.Offset, idx, report)
	for i := range report.Sections {
		sec := &report.Sections[i]
		sec.Metrics = extractMetrics(sec.Body, sec.Title, bodyStartLine(sec, src, idx))
	}

	return report, nil
}

// bodyStartLine returns the source line the section body starts on. The
// body is stored trimmed, so blank lines after the heading are skipped
// here to keep metric positions on the lines the author wrote.
func bodyStartLine(sec *core.Section, src []byte, idx *lineIndex) int {
	start := sec.Span.Start.Offset
	if !sec.IsPreamble() {
		start = idx.nextLineStart(start)
	}
	end := sec.Span.End.Offset
	if end > len(src) {
		end = len(src)
	}
	for start < end && (src[start] == '\n' || src[start] == '\r' || src[start] == ' ' || src[start] == '\t') {
		start++
	}
	return idx.position(start).Line
}

// headingMark is an intermediate record for one heading node.
type headingMark struct {
	title  string
	level  int
	offset int // byte offset into the original source, -1 if unknown
}

// buildSections segments the document at every heading. Content before the
// first heading becomes a synthetic preamble section when non-blank.
func buildSections(headings []headingMark, body []byte, bodyOffset, totalLen int, idx *lineIndex) []core.Section {
	var sections []core.Section

	firstHeading := totalLen
	for _, h := range headings {
		if h.offset >= 0 {
			firstHeading = idx.lineStart(h.offset)
			break
		}
	}
	if pre := bytes.TrimSpace(body[:clamp(firstHeading-bodyOffset, 0, len(body))]); len(pre) > 0 {
		sections = append(sections, core.Section{
			Title: "",
			Level: 0,
			Span: token.Span{
				Start: idx.position(bodyOffset),
				End:   idx.position(firstHeading),
			},
			Heading: idx.position(bodyOffset),
			Body:    string(pre),
		})
	}

	// A heading with no locatable source line (e.g. a bare "##") anchors
	// at the previous section's end so spans stay ordered and disjoint.
	prevEnd := firstHeading
	for i, h := range headings {
		start := h.offset
		if start < 0 {
			start = prevEnd
		} else {
			start = idx.lineStart(start)
		}

		end := totalLen
		if i+1 < len(headings) && headings[i+1].offset >= 0 {
			end = idx.lineStart(headings[i+1].offset)
		}
		if end < start {
			end = start
		}

		bodyStart := idx.nextLineStart(start)
		var secBody string
		if bodyStart < end {
			secBody = strings.TrimSpace(string(body[clamp(bodyStart-bodyOffset, 0, len(body)):clamp(end-bodyOffset, 0, len(body))]))
		}

		sections = append(sections, core.Section{
			Title:   h.title,
			Level:   h.level,
			Span:    token.Span{Start: idx.position(start), End: idx.position(end)},
			Heading: idx.position(start),
			Body:    secBody,
		})
		prevEnd = end
	}

	return sections
}

// attachTables walks table nodes and attaches each to the section that
// contains it.
func attachTables(doc ast.Node, body []byte, bodyOffset int, idx *lineIndex, report *core.Report) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		tbl, ok := n.(*east.Table)
		if !ok {
			return ast.WalkContinue, nil
		}

		parsed := core.Table{Pos: idx.position(tableOffset(tbl, bodyOffset))}
		for row := tbl.FirstChild(); row != nil; row = row.NextSibling() {
			var cells []string
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				cells = append(cells, textContent(cell, body))
			}
			switch row.(type) {
			case *east.TableHeader:
				parsed.Header = cells
			case *east.TableRow:
				parsed.Rows = append(parsed.Rows, cells)
			}
		}

		if sec := sectionAt(report, parsed.Pos); sec != nil {
			sec.Tables = append(sec.Tables, parsed)
		}
		return ast.WalkSkipChildren, nil
	})
}

// tableOffset locates a table node in the source. Table nodes carry no
// line segments of their own, so the offset comes from the first cell's
// text.
func tableOffset(tbl ast.Node, bodyOffset int) int {
	if off := blockOffset(tbl, bodyOffset); off >= 0 {
		return off
	}
	off := -1
	_ = ast.Walk(tbl, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			off = t.Segment.Start + bodyOffset
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return off
}

// sectionAt returns the section containing the position, or nil.
func sectionAt(report *core.Report, pos token.Position) *core.Section {
	for i := range report.Sections {
		if report.Sections[i].Span.Contains(pos) {
			return &report.Sections[i]
		}
	}
	return nil
}

func makeLink(linkText, target string, offset int, idx *lineIndex) core.Link {
	return core.Link{
		Text:     linkText,
		Target:   target,
		Internal: isInternalTarget(target),
		Pos:      idx.position(offset),
	}
}

// isInternalTarget reports whether a link target points inside the corpus:
// a relative path with no URL scheme, fragment-only links excluded.
func isInternalTarget(target string) bool {
	if target == "" || strings.HasPrefix(target, "#") {
		return false
	}
	if strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:") {
		return false
	}
	return !strings.HasPrefix(target, "/")
}

// blockOffset returns the offset of a block node's first line within the
// original source, or -1 when the node has no lines (e.g. an empty heading).
func blockOffset(n ast.Node, bodyOffset int) int {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return -1
	}
	return lines.At(0).Start + bodyOffset
}

// linkOffset finds a source offset for an inline node by locating its first
// text child, falling back to the enclosing block.
func linkOffset(n ast.Node, bodyOffset int) int {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			return t.Segment.Start + bodyOffset
		}
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if off := blockOffset(p, bodyOffset); off >= 0 {
			return off
		}
	}
	return -1
}

// textContent collects the plain text of a node and its descendants.
func textContent(n ast.Node, src []byte) string {
	var sb strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
		case *ast.String:
			sb.Write(t.Value)
		default:
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// =============================================================================
// Line index
// =============================================================================

// lineIndex converts byte offsets in the original source to positions.
type lineIndex struct {
	starts []int // byte offset of each line start
	length int
}

func newLineIndex(src []byte) *lineIndex {
	idx := &lineIndex{starts: []int{0}, length: len(src)}
	for i, b := range src {
		if b == '\n' && i+1 < len(src) {
			idx.starts = append(idx.starts, i+1)
		}
	}
	return idx
}

// position converts a byte offset to a Position. Offsets out of range clamp
// to the document bounds.
func (idx *lineIndex) position(offset int) token.Position {
	if offset < 0 {
		return token.Position{}
	}
	if offset > idx.length {
		offset = idx.length
	}
	line := idx.lineFor(offset)
	return token.Position{
		Line:   line + 1,
		Col:    offset - idx.starts[line] + 1,
		Offset: offset,
	}
}

// lineStart returns the offset of the start of the line containing offset.
func (idx *lineIndex) lineStart(offset int) int {
	return idx.starts[idx.lineFor(offset)]
}

// nextLineStart returns the offset just past the line containing offset,
// or the document length for the last line.
func (idx *lineIndex) nextLineStart(offset int) int {
	line := idx.lineFor(offset)
	if line+1 < len(idx.starts) {
		return idx.starts[line+1]
	}
	return idx.length
}

func (idx *lineIndex) lineFor(offset int) int {
	lo, hi := 0, len(idx.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if idx.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
