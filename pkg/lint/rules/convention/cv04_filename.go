package convention

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/schema"
	"github.com/dia3-labs/brief/pkg/token"
)

func init() {
	lint.Register(Filename)
}

// Filename flags report files whose basename is not kebab-case. The
// pattern is configurable per project.
var Filename = lint.RuleDef{
	ID:          "CV04",
	Name:        "convention.filename",
	Group:       "convention",
	Description: "Report filename is not kebab-case.",
	Severity:    lint.SeverityHint,
	Check:       checkFilename,
	ConfigKeys:  []string{"pattern"},
	BadExample:  "Pacific_Theater_FINAL (2).md",
	GoodExample: "pacific-theater-positioning.md",
}

// filenameOptions are the CV04 rule options.
type filenameOptions struct {
	Pattern string `mapstructure:"pattern"`
}

var defaultFilenamePattern = regexp.MustCompile(`^[a-z0-9]+(?:[-.][a-z0-9]+)*\.md$`)

func checkFilename(doc *core.Report, _ *schema.Profile, opts map[string]any) []lint.Diagnostic {
	if doc.Path == "" {
		return nil
	}

	pattern := defaultFilenamePattern
	var o filenameOptions
	if err := lint.DecodeOptions(opts, &o); err == nil && o.Pattern != "" {
		if custom, err := regexp.Compile(o.Pattern); err == nil {
			pattern = custom
		}
	}

	base := filepath.Base(doc.Path)
	if pattern.MatchString(base) {
		return nil
	}
	return []lint.Diagnostic{{
		RuleID:   "CV04",
		Severity: lint.SeverityHint,
		Message:  fmt.Sprintf("filename %q does not match %s", base, pattern.String()),
		Pos:      token.Position{Line: 1, Col: 1},
	}}
}
