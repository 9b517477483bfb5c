package corpusrules

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/lint"
	"github.com/dia3-labs/brief/pkg/lint/corpus"
	"github.com/dia3-labs/brief/pkg/parser"
)

type fakeContext struct {
	reports map[string]*core.Report
	config  corpus.Config
}

func newFakeContext(t *testing.T, docs map[string]string) *fakeContext {
	t.Helper()
	ctx := &fakeContext{
		reports: make(map[string]*core.Report),
		config:  corpus.DefaultConfig(),
	}
	for path, src := range docs {
		r, err := parser.Parse(path, []byte(src))
		require.NoError(t, err, "parse %s", path)
		ctx.reports[path] = r
	}
	return ctx
}

func (c *fakeContext) Reports() []*core.Report {
	paths := make([]string, 0, len(c.reports))
	for p := range c.reports {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	out := make([]*core.Report, 0, len(paths))
	for _, p := range paths {
		out = append(out, c.reports[p])
	}
	return out
}

func (c *fakeContext) Report(path string) *core.Report { return c.reports[path] }

func (c *fakeContext) IndexDocument() *core.Report {
	return c.reports[c.config.IndexDocPath]
}

func (c *fakeContext) Config() corpus.Config { return c.config }

func findByRule(diags []corpus.Diagnostic, ruleID string) []corpus.Diagnostic {
	var out []corpus.Diagnostic
	for _, d := range diags {
		if d.RuleID == ruleID {
			out = append(out, d)
		}
	}
	return out
}

func TestDuplicateTitle(t *testing.T) {
	ctx := newFakeContext(t, map[string]string{
		"pacific.md": "---\ntitle: Pacific Theater Assessment\n---\n\n# Pacific Theater Assessment\n\nBody.\n",
		"copy.md":    "---\ntitle: Pacific Theater Assessment\n---\n\n# Pacific Theater Assessment\n\nOther body.\n",
		"other.md":   "---\ntitle: Baltic Posture Review\n---\n\n# Baltic Posture Review\n\nBody.\n",
	})

	// Reports are ordered by path, so copy.md holds the title first.
	diags := findByRule(DuplicateTitle.Check(ctx), "CP01")
	require.Len(t, diags, 1)
	assert.Equal(t, "pacific.md", diags[0].Path)
	assert.Contains(t, diags[0].Message, "copy.md")
}

func TestBrokenLink(t *testing.T) {
	ctx := newFakeContext(t, map[string]string{
		"reports/a.md": "# A\n\nSee [the review](b.md) and [missing](gone.md#s1).\n",
		"reports/b.md": "# B\n\nBody.\n",
	})

	diags := findByRule(BrokenLink.Check(ctx), "CP02")
	require.Len(t, diags, 1)
	assert.Equal(t, "reports/a.md", diags[0].Path)
	assert.Contains(t, diags[0].Message, "gone.md")
}

func TestBrokenLinkIgnoresExternal(t *testing.T) {
	ctx := newFakeContext(t, map[string]string{
		"a.md": "# A\n\n[site](https://example.com) and [anchor](#conclusion).\n",
	})
	assert.Empty(t, findByRule(BrokenLink.Check(ctx), "CP02"))
}

func TestMissingFromIndex(t *testing.T) {
	ctx := newFakeContext(t, map[string]string{
		"README.md":  "# Briefings\n\n- [Pacific](pacific.md)\n",
		"pacific.md": "# Pacific\n\nBody.\n",
		"baltic.md":  "# Baltic\n\nBody.\n",
	})

	diags := findByRule(MissingFromIndex.Check(ctx), "CP03")
	require.Len(t, diags, 1)
	assert.Equal(t, "baltic.md", diags[0].Path)
	assert.Equal(t, core.SeverityInfo, diags[0].Severity)
}

func TestMissingFromIndexNoIndexDoc(t *testing.T) {
	ctx := newFakeContext(t, map[string]string{
		"pacific.md": "# Pacific\n\nBody.\n",
	})
	assert.Empty(t, findByRule(MissingFromIndex.Check(ctx), "CP03"))
}

func TestMetricDrift(t *testing.T) {
	ctx := newFakeContext(t, map[string]string{
		"initial.md": "---\nscenario: pacific-2026\n---\n\n# Initial Assessment\n\n- Success Probability: 74.9%\n",
		"update.md":  "---\nscenario: pacific-2026\n---\n\n# Updated Assessment\n\n- Success Probability: 52.1%\n",
		"other.md":   "---\nscenario: baltic-2026\n---\n\n# Baltic\n\n- Success Probability: 12.0%\n",
	})

	diags := findByRule(MetricDrift.Check(ctx), "CP04")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "pacific-2026")
	assert.Contains(t, diags[0].Message, "success probability")
	assert.Contains(t, diags[0].Message, "initial.md")
	assert.Contains(t, diags[0].Message, "update.md")
}

func TestMetricDriftWithinTolerance(t *testing.T) {
	ctx := newFakeContext(t, map[string]string{
		"initial.md": "---\nscenario: pacific-2026\n---\n\n# Initial\n\n- Success Probability: 74.9%\n",
		"update.md":  "---\nscenario: pacific-2026\n---\n\n# Update\n\n- Success Probability: 72.3%\n",
	})
	assert.Empty(t, findByRule(MetricDrift.Check(ctx), "CP04"))
}

func TestMetricDriftCustomTolerance(t *testing.T) {
	ctx := newFakeContext(t, map[string]string{
		"initial.md": "---\nscenario: pacific-2026\n---\n\n# Initial\n\n- Success Probability: 74.9%\n",
		"update.md":  "---\nscenario: pacific-2026\n---\n\n# Update\n\n- Success Probability: 72.3%\n",
	})
	ctx.config.MetricDriftTolerance = 1.0

	diags := findByRule(MetricDrift.Check(ctx), "CP04")
	require.Len(t, diags, 1)
}

func TestAnalyzerSortsAndFiltersCorpusRules(t *testing.T) {
	ctx := newFakeContext(t, map[string]string{
		"b.md": "---\ntitle: Shared Title\n---\n\n# Shared Title\n\n[dead](nope.md)\n",
		"a.md": "---\ntitle: Shared Title\n---\n\n# Shared Title\n\nBody.\n",
	})

	a := corpus.NewAnalyzer(lint.NewConfig())
	diags := a.Analyze(ctx)
	require.NotEmpty(t, diags)
	for i := 1; i < len(diags); i++ {
		if diags[i-1].Path == diags[i].Path {
			assert.LessOrEqual(t, diags[i-1].RuleID, diags[i].RuleID)
		} else {
			assert.Less(t, diags[i-1].Path, diags[i].Path)
		}
	}

	cfg := lint.NewConfig().Disable("CP02")
	diags = corpus.NewAnalyzer(cfg).Analyze(ctx)
	assert.Empty(t, findByRule(diags, "CP02"))
	assert.NotEmpty(t, findByRule(diags, "CP01"))
}
