// Package ingest converts HTML documents into briefing report skeletons.
// The HTML body is converted to Markdown, the document title is sniffed
// from <title> or the first <h1>, and frontmatter plus any missing
// required profile sections are stubbed in so the result is ready for
// editing and linting.
package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"

	"github.com/dia3-labs/brief/pkg/format"
	"github.com/dia3-labs/brief/pkg/parser"
	"github.com/dia3-labs/brief/pkg/schema"
)

// Options control skeleton assembly.
type Options struct {
	// Title overrides the sniffed document title.
	Title string

	// Profile, when set, stubs missing required sections and is written
	// into frontmatter.
	Profile *schema.Profile

	// Classification is the frontmatter marking. Empty means the
	// profile's first accepted marking, or UNCLASSIFIED.
	Classification string

	// Date is the frontmatter date. Empty means today.
	Date string
}

// Result is an assembled report skeleton.
type Result struct {
	Title    string
	Slug     string
	Markdown []byte
}

var (
	excessiveNewlines = regexp.MustCompile(`\n{3,}`)
	nonSlugChars      = regexp.MustCompile(`[^a-z0-9]+`)
)

// Convert turns an HTML document into a report skeleton.
func Convert(src []byte, opts Options) (*Result, error) {
	doc, err := html.Parse(strings.NewReader(string(src)))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := opts.Title
	if title == "" {
		title = sniffTitle(doc)
	}
	if title == "" {
		title = "Untitled Report"
	}

	body, err := htmltomarkdown.ConvertString(string(src))
	if err != nil {
		return nil, fmt.Errorf("convert html: %w", err)
	}
	body = cleanMarkdown(body, title)

	date := opts.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	classification := opts.Classification
	if classification == "" {
		if opts.Profile != nil {
			classification = opts.Profile.AcceptedClassifications()[0]
		} else {
			classification = "UNCLASSIFIED"
		}
	}

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %s\n", title)
	fmt.Fprintf(&b, "date: %s\n", date)
	fmt.Fprintf(&b, "classification: %s\n", classification)
	if opts.Profile != nil {
		fmt.Fprintf(&b, "profile: %s\n", opts.Profile.Name)
	}
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "# %s\n", title)
	if body != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(body, "\n"))
		b.WriteString("\n")
	}

	out := b.String()
	if opts.Profile != nil {
		out = stubMissingSections(out, opts.Profile)
	}

	formatted, err := format.Format([]byte(out), format.Options{Profile: opts.Profile})
	if err != nil {
		return nil, err
	}

	return &Result{Title: title, Slug: Slugify(title), Markdown: formatted}, nil
}

// sniffTitle finds the document title: <title> content first, then the
// text of the first <h1>.
func sniffTitle(doc *html.Node) string {
	if t := textOfFirst(doc, "title"); t != "" {
		return t
	}
	return textOfFirst(doc, "h1")
}

func textOfFirst(n *html.Node, tag string) string {
	if n.Type == html.ElementNode && n.Data == tag {
		return strings.TrimSpace(nodeText(n))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := textOfFirst(c, tag); t != "" {
			return t
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}

// cleanMarkdown collapses blank runs and drops a leading H1 that repeats
// the sniffed title, since the skeleton writes its own.
func cleanMarkdown(body, title string) string {
	body = excessiveNewlines.ReplaceAllString(body, "\n\n")
	body = strings.TrimSpace(body)

	lines := strings.SplitN(body, "\n", 2)
	if len(lines) > 0 {
		first := strings.TrimSpace(strings.TrimPrefix(lines[0], "# "))
		if strings.HasPrefix(lines[0], "# ") && strings.EqualFold(first, title) {
			if len(lines) == 2 {
				return strings.TrimSpace(lines[1])
			}
			return ""
		}
	}
	return body
}

// stubMissingSections appends an empty heading for every required profile
// section the converted document does not already contain.
func stubMissingSections(markdown string, profile *schema.Profile) string {
	doc, err := parser.Parse("skeleton.md", []byte(markdown))
	if err != nil {
		return markdown
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(markdown, "\n"))
	b.WriteString("\n")
	for _, title := range profile.RequiredSections() {
		if doc.Section(title) != nil {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\nTBD.\n", title)
	}
	return b.String()
}

// Slugify turns a title into a kebab-case filename stem.
func Slugify(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "untitled"
	}
	return slug
}
