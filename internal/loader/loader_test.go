package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestLoadDiscoversMarkdown(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"pacific/positioning.md": "# Pacific Positioning\n\n## Executive Summary\n\n- Success Probability: 74.9%\n",
		"README.md":              "# Index\n",
		"notes.txt":              "not a report",
	})

	result, err := New(nil).Load(root)
	require.NoError(t, err)
	assert.False(t, result.HasErrors())

	c := result.Corpus
	require.Len(t, c.Reports, 2)
	// Sorted by corpus path.
	assert.Equal(t, "README.md", c.Reports[0].Path)
	assert.Equal(t, "pacific/positioning.md", c.Reports[1].Path)

	doc := c.Report("pacific/positioning.md")
	require.NotNil(t, doc)
	assert.Equal(t, "Pacific Positioning", doc.Title)
	assert.NotEmpty(t, c.ContentHash("pacific/positioning.md"))
}

func TestLoadSkipsHiddenAndUnderscore(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"report.md":          "# Report\n",
		".git/blob.md":       "# Not a report\n",
		"_drafts/wip.md":     "# Draft\n",
		".hidden-report.md":  "# Hidden\n",
		"archive/_old.md":    "# Old\n",
		"archive/kept.md":    "# Kept\n",
	})

	result, err := New(nil).Load(root)
	require.NoError(t, err)
	require.Len(t, result.Corpus.Reports, 2)
	assert.Equal(t, "archive/kept.md", result.Corpus.Reports[0].Path)
	assert.Equal(t, "report.md", result.Corpus.Reports[1].Path)
}

func TestLoadCollectsParseErrors(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"good.md": "# Good\n",
		"bad.md":  "---\nbogus_field: 1\n---\n\n# Bad\n",
	})

	result, err := New(nil).Load(root)
	require.NoError(t, err)
	require.True(t, result.HasErrors())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "bad.md", result.Errors[0].Path)
	assert.Contains(t, result.Errors[0].Error(), "frontmatter")

	require.Len(t, result.Corpus.Reports, 1)
	assert.Equal(t, "good.md", result.Corpus.Reports[0].Path)
}

func TestLoadResolvesProfile(t *testing.T) {
	explicit := "---\nprofile: project-summary\n---\n\n# R\n"
	heuristic := `# Assessment

## Executive Summary

- Success Probability: 74.9%

## Monte Carlo Simulation Results

- Iterations: 10,000

## Conclusion

- Success Probability: 74.9%
`
	root := writeCorpus(t, map[string]string{
		"explicit.md":  explicit,
		"heuristic.md": heuristic,
		"plain.md":     "# Untyped\n\nNothing to match.\n",
	})

	result, err := New(nil).Load(root)
	require.NoError(t, err)
	c := result.Corpus

	assert.Equal(t, "project-summary", c.Report("explicit.md").Profile)
	assert.Equal(t, "strategic-positioning", c.Report("heuristic.md").Profile)
	assert.Empty(t, c.Report("plain.md").Profile)
}

func TestLoadMissingRoot(t *testing.T) {
	_, err := New(nil).Load(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestLoadFileSingle(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"solo.md": "# Solo Report\n",
	})

	doc, err := New(nil).LoadFile(filepath.Join(root, "solo.md"))
	require.NoError(t, err)
	assert.Equal(t, "solo.md", doc.Path)
	assert.Equal(t, "Solo Report", doc.Title)
	assert.NotEmpty(t, doc.FilePath)
}
