package corpusrules

import (
	"fmt"
	"path"
	"strings"

	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/lint/corpus"
	"github.com/dia3-labs/brief/pkg/token"
)

func init() {
	corpus.Register(MissingFromIndex)
}

// MissingFromIndex flags reports the corpus index document does not link.
var MissingFromIndex = corpus.RuleDef{
	ID:          "CP03",
	Name:        "corpus.missing_from_index",
	Group:       "corpus",
	Description: "Report is not listed in the corpus index document.",
	Severity:    lint.SeverityInfo,
	Check:       checkMissingFromIndex,
	ConfigKeys:  []string{"index"},
	Rationale: "Reports discoverable only by directory listing might as well not " +
		"exist; the index is the corpus's table of contents.",
	Fix: "Add a link to the report in the index document.",
}

func checkMissingFromIndex(ctx corpus.Context) []corpus.Diagnostic {
	index := ctx.IndexDocument()
	if index == nil {
		return nil
	}

	linked := make(map[string]bool)
	base := path.Dir(index.Path)
	for _, link := range index.Links {
		if !link.Internal {
			continue
		}
		target := link.Target
		if i := strings.IndexByte(target, '#'); i >= 0 {
			target = target[:i]
		}
		linked[path.Clean(path.Join(base, target))] = true
	}

	var diagnostics []corpus.Diagnostic
	for _, r := range ctx.Reports() {
		if r.Path == index.Path {
			continue
		}
		if !linked[r.Path] {
			diagnostics = append(diagnostics, corpus.Diagnostic{
				RuleID:   "CP03",
				Severity: lint.SeverityInfo,
				Message:  fmt.Sprintf("report is not linked from %s", index.Path),
				Path:     r.Path,
				Pos:      token.Position{Line: 1, Col: 1},
			})
		}
	}
	return diagnostics
}
