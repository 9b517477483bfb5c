package core

import (
	"strings"

	"github.com/dia3-labs/brief/pkg/token"
)

// =============================================================================
// Document Model
// =============================================================================

// Report is the parsed representation of a single briefing document.
type Report struct {
	Path     string // path relative to the corpus root, e.g. "pacific/positioning.md"
	FilePath string // absolute path to the .md file
	Title    string // frontmatter title, falling back to the first heading
	Profile  string // resolved profile name, e.g. "strategic-positioning"

	Front    Frontmatter
	Sections []Section
	Links    []Link

	Source string // full document source after frontmatter extraction
}

// Frontmatter holds the YAML header of a briefing document.
// Unknown fields are rejected at parse time (use Meta for extensions).
type Frontmatter struct {
	Title          string         `yaml:"title"`
	Date           string         `yaml:"date"`
	Classification string         `yaml:"classification"`
	Profile        string         `yaml:"profile"`
	Scenario       string         `yaml:"scenario"`
	Author         string         `yaml:"author"`
	Tags           []string       `yaml:"tags"`
	Meta           map[string]any `yaml:"meta"`
}

// Section is a heading-delimited region of a report.
type Section struct {
	Title   string
	Level   int        // heading level, 1-6; 0 for the synthetic preamble section
	Span    token.Span // from the heading to the start of the next same-or-higher heading
	Heading token.Position
	Body    string // text content of the section, heading excluded

	Metrics []Metric
	Tables  []Table
}

// IsPreamble reports whether the section is the synthetic region before the
// first heading.
func (s Section) IsPreamble() bool {
	return s.Level == 0
}

// WordCount returns the number of whitespace-separated words in the body.
func (s Section) WordCount() int {
	return len(strings.Fields(s.Body))
}

// Metrics returns all metrics in the report, in document order.
func (r *Report) Metrics() []Metric {
	var out []Metric
	for _, s := range r.Sections {
		out = append(out, s.Metrics...)
	}
	return out
}

// Section returns the first section whose title matches (case-insensitive),
// or nil.
func (r *Report) Section(title string) *Section {
	for i := range r.Sections {
		if strings.EqualFold(r.Sections[i].Title, title) {
			return &r.Sections[i]
		}
	}
	return nil
}

// =============================================================================
// Metrics
// =============================================================================

// MetricUnit classifies how a metric value was written.
type MetricUnit string

// Metric units.
const (
	UnitPercent MetricUnit = "percent" // "74.9%"
	UnitScore   MetricUnit = "score"   // "7.2/10"
	UnitCount   MetricUnit = "count"   // "10,000 iterations"
	UnitPlain   MetricUnit = "plain"   // bare number
)

// Metric is a "Key: value" figure extracted from bullet or emphasis text,
// e.g. "Success Probability: 74.9%".
type Metric struct {
	Key      string
	RawValue string // the value text exactly as written
	Value    float64
	Valid    bool       // false when the value did not parse as a number
	Unit     MetricUnit
	Scale    float64   // declared denominator for score metrics ("7.2/10" -> 10); 0 if none
	Interval *Interval // set for range values like "45.0% - 60.0%"
	Section  string    // owning section title
	Pos      token.Position
}

// Interval is a low/high range attached to a metric.
type Interval struct {
	Low  float64
	High float64
}

// =============================================================================
// Tables and Links
// =============================================================================

// Table is a pipe table extracted from a section.
type Table struct {
	Header []string
	Rows   [][]string
	Pos    token.Position
}

// Link is a Markdown link found anywhere in the document.
type Link struct {
	Text     string
	Target   string
	Internal bool // relative target with no URL scheme
	Pos      token.Position
}
