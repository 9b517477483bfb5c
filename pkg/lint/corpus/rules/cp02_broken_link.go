package corpusrules

import (
	"fmt"
	"path"
	"strings"

	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/lint/corpus"
)

func init() {
	corpus.Register(BrokenLink)
}

// BrokenLink flags internal Markdown links whose target report does not
// exist in the corpus.
var BrokenLink = corpus.RuleDef{
	ID:          "CP02",
	Name:        "corpus.broken_link",
	Group:       "corpus",
	Description: "Internal link resolves to a missing report.",
	Severity:    lint.SeverityError,
	Check:       checkBrokenLink,
	Rationale: "Cross-references are how analysts chain reports into an argument. " +
		"A dead link severs the chain silently.",
	Fix: "Update the link target, or restore the referenced report.",
}

func checkBrokenLink(ctx corpus.Context) []corpus.Diagnostic {
	var diagnostics []corpus.Diagnostic
	for _, r := range ctx.Reports() {
		base := path.Dir(r.Path)
		for _, link := range r.Links {
			if !link.Internal {
				continue
			}
			target := link.Target
			if i := strings.IndexByte(target, '#'); i >= 0 {
				target = target[:i]
			}
			// Only Markdown targets are checkable against the corpus.
			if !strings.HasSuffix(target, ".md") {
				continue
			}
			resolved := path.Clean(path.Join(base, target))
			if ctx.Report(resolved) == nil {
				diagnostics = append(diagnostics, corpus.Diagnostic{
					RuleID:   "CP02",
					Severity: lint.SeverityError,
					Message:  fmt.Sprintf("link target %q does not exist in the corpus", link.Target),
					Path:     r.Path,
					Pos:      link.Pos,
				})
			}
		}
	}
	return diagnostics
}
