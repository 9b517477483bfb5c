package convention

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/schema"
)

func init() {
	lint.Register(HeadingCase)
}

// HeadingCase flags section headings whose casing differs from the
// profile's canonical form, and free headings that start lowercase.
var HeadingCase = lint.RuleDef{
	ID:          "CV01",
	Name:        "convention.heading_case",
	Group:       "convention",
	Description: "Section heading casing differs from the canonical form.",
	Severity:    lint.SeverityHint,
	Check:       checkHeadingCase,
	BadExample:  "## executive summary",
	GoodExample: "## Executive Summary",
}

var titleCaser = cases.Title(language.AmericanEnglish)

func checkHeadingCase(doc *core.Report, profile *schema.Profile, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, sec := range doc.Sections {
		if sec.IsPreamble() || sec.Title == "" {
			continue
		}

		if profile != nil {
			if spec := profile.Section(sec.Title); spec != nil {
				if sec.Title != spec.Title {
					diagnostics = append(diagnostics, lint.Diagnostic{
						RuleID:   "CV01",
						Severity: lint.SeverityHint,
						Message:  fmt.Sprintf("heading %q should be written %q", sec.Title, spec.Title),
						Pos:      sec.Heading,
					})
				}
				continue
			}
		}

		first := sec.Title[0]
		if first >= 'a' && first <= 'z' {
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:   "CV01",
				Severity: lint.SeverityHint,
				Message: fmt.Sprintf("heading %q should be title-cased, e.g. %q",
					sec.Title, titleCaser.String(strings.ToLower(sec.Title))),
				Pos: sec.Heading,
			})
		}
	}
	return diagnostics
}
