// Package format normalizes briefing Markdown to the house style: ATX
// headings, canonical section casing, aligned table columns, collapsed
// blank runs, and a single trailing newline. Formatting is idempotent:
// formatting already-formatted output changes nothing.
package format

import (
	"strings"

	"github.com/dia3-labs/brief/pkg/parser"
	"github.com/dia3-labs/brief/pkg/schema"
)

// Options control formatting behavior.
type Options struct {
	// Profile supplies canonical section-heading casing. Nil leaves
	// heading text untouched.
	Profile *schema.Profile
}

// Format normalizes src. The frontmatter block, fenced code blocks, and
// all running text are preserved verbatim; only layout is rewritten.
func Format(src []byte, opts Options) ([]byte, error) {
	fm, err := parser.ExtractFrontmatter(src)
	if err != nil {
		// Malformed frontmatter is a lint problem, not a formatting one;
		// format the document as-is.
		return formatBody(src, opts), nil
	}

	if !fm.HasYAML {
		return formatBody(src, opts), nil
	}

	// Keep the frontmatter block verbatim, separated from the body by a
	// single blank line.
	var out []byte
	out = append(out, src[:fm.Offset]...)
	out = append(out, '\n')
	out = append(out, formatBody(fm.Body, opts)...)
	return out, nil
}

func formatBody(src []byte, opts Options) []byte {
	lines := strings.Split(strings.ReplaceAll(string(src), "\r\n", "\n"), "\n")

	var out []string
	var table []string
	inFence := false
	fenceMarker := ""

	flushTable := func() {
		if len(table) > 0 {
			out = append(out, alignTable(table)...)
			table = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if inFence {
			out = append(out, line)
			if isFenceClose(line, fenceMarker) {
				inFence = false
			}
			continue
		}
		if marker, ok := fenceOpen(line); ok {
			flushTable()
			inFence = true
			fenceMarker = marker
			out = append(out, strings.TrimRight(line, " \t"))
			continue
		}

		// Setext heading: text underlined with = or -.
		if i+1 < len(lines) && isSetextUnderline(lines[i+1]) && strings.TrimSpace(line) != "" &&
			!strings.HasPrefix(strings.TrimSpace(line), "#") && !isTableRow(line) {
			flushTable()
			level := 1
			if strings.HasPrefix(strings.TrimSpace(lines[i+1]), "-") {
				level = 2
			}
			out = append(out, formatHeading(level, strings.TrimSpace(line), opts.Profile))
			i++ // consume the underline
			continue
		}

		if level, text, ok := atxHeading(line); ok {
			flushTable()
			out = append(out, formatHeading(level, text, opts.Profile))
			continue
		}

		if isTableRow(line) {
			table = append(table, line)
			continue
		}
		flushTable()

		out = append(out, strings.TrimRight(line, " \t"))
	}
	flushTable()

	out = collapseBlankRuns(out)

	// Exactly one trailing newline.
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return []byte(strings.Join(out, "\n") + "\n")
}

// atxHeading parses an ATX heading line, tolerating missing space after
// the markers and trailing closing markers.
func atxHeading(line string) (level int, text string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, "#") {
		return 0, "", false
	}
	level = 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level > 6 {
		return 0, "", false
	}
	rest := trimmed[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", false
	}
	text = strings.TrimSpace(rest)
	text = strings.TrimRight(text, "#")
	return level, strings.TrimSpace(text), true
}

func formatHeading(level int, text string, profile *schema.Profile) string {
	if profile != nil {
		if spec := profile.Section(text); spec != nil {
			text = spec.Title
		}
	}
	return strings.Repeat("#", level) + " " + text
}

func isSetextUnderline(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 1 {
		return false
	}
	c := trimmed[0]
	if c != '=' && c != '-' {
		return false
	}
	for i := 1; i < len(trimmed); i++ {
		if trimmed[i] != c {
			return false
		}
	}
	return true
}

func fenceOpen(line string) (marker string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	for _, m := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, m) {
			return m, true
		}
	}
	return "", false
}

func isFenceClose(line, marker string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, marker) {
		return false
	}
	return strings.Trim(trimmed, string(marker[0])) == ""
}

func isTableRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "|") && strings.Count(trimmed, "|") >= 2
}

// alignTable pads table cells so every pipe in a block lines up. The
// delimiter row keeps its alignment colons.
func alignTable(rows []string) []string {
	if len(rows) < 2 {
		return trimRows(rows)
	}

	cells := make([][]string, len(rows))
	cols := 0
	for i, row := range rows {
		cells[i] = splitRow(row)
		if len(cells[i]) > cols {
			cols = len(cells[i])
		}
	}

	widths := make([]int, cols)
	for i, row := range cells {
		if isDelimiterRow(rows[i]) {
			continue
		}
		for j, cell := range row {
			if len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
	}
	// A delimiter cell needs at least "---" plus its colons.
	for j := range widths {
		if widths[j] < 3 {
			widths[j] = 3
		}
	}

	out := make([]string, len(rows))
	for i, row := range cells {
		var b strings.Builder
		b.WriteByte('|')
		for j := 0; j < cols; j++ {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			if isDelimiterRow(rows[i]) {
				b.WriteByte(' ')
				b.WriteString(delimiterCell(cell, widths[j]))
				b.WriteString(" |")
				continue
			}
			b.WriteByte(' ')
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[j]-len(cell)))
			b.WriteString(" |")
		}
		out[i] = b.String()
	}
	return out
}

func trimRows(rows []string) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = strings.TrimRight(r, " \t")
	}
	return out
}

func splitRow(row string) []string {
	trimmed := strings.TrimSpace(row)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	parts := strings.Split(trimmed, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func isDelimiterRow(row string) bool {
	trimmed := strings.TrimSpace(row)
	if !strings.HasPrefix(trimmed, "|") {
		return false
	}
	for _, c := range trimmed {
		switch c {
		case '|', '-', ':', ' ':
		default:
			return false
		}
	}
	return strings.Contains(trimmed, "-")
}

// delimiterCell rebuilds a delimiter cell at the given width, preserving
// its alignment colons.
func delimiterCell(cell string, width int) string {
	left := strings.HasPrefix(cell, ":")
	right := strings.HasSuffix(cell, ":")
	dashes := width
	if left {
		dashes--
	}
	if right {
		dashes--
	}
	if dashes < 1 {
		dashes = 1
	}
	var b strings.Builder
	if left {
		b.WriteByte(':')
	}
	b.WriteString(strings.Repeat("-", dashes))
	if right {
		b.WriteByte(':')
	}
	return b.String()
}

// collapseBlankRuns reduces runs of blank lines to a single blank line
// and drops leading blanks.
func collapseBlankRuns(lines []string) []string {
	var out []string
	blank := true // swallow leading blanks
	for _, line := range lines {
		if line == "" {
			if blank {
				continue
			}
			blank = true
			out = append(out, line)
			continue
		}
		blank = false
		out = append(out, line)
	}
	return out
}
