package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestModeNormalization(t *testing.T) {
	assert.Equal(t, ModeJSON, Mode("json"))
	assert.Equal(t, ModeMarkdown, Mode("markdown"))
	assert.Equal(t, ModeMarkdown, Mode("md"))
	assert.Equal(t, ModeText, Mode("text"))
	assert.Equal(t, ModeAuto, Mode(""))
	assert.Equal(t, ModeAuto, Mode("bogus"))
}

func TestEffectiveMode(t *testing.T) {
	r, _, _ := newBufRenderer(ModeAuto, true)
	assert.Equal(t, ModeText, r.EffectiveMode())

	r, _, _ = newBufRenderer(ModeAuto, false)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	r, _, _ = newBufRenderer(ModeJSON, true)
	assert.Equal(t, ModeJSON, r.EffectiveMode())
}

func TestMarkdownOutputHasNoANSI(t *testing.T) {
	r, out, _ := newBufRenderer(ModeMarkdown, false)
	r.Header(1, "Reports")
	r.Success("all clean")
	r.Muted("details")

	s := out.String()
	assert.NotContains(t, s, "\x1b[")
	assert.Contains(t, s, "# Reports")
	assert.Contains(t, s, "all clean")
}

func TestSuccessOnTerminal(t *testing.T) {
	r, out, _ := newBufRenderer(ModeText, true)
	r.Success("indexed")
	assert.Contains(t, out.String(), "indexed")
}

func TestErrorGoesToErrWriter(t *testing.T) {
	r, out, errOut := newBufRenderer(ModeMarkdown, false)
	r.Error("broken")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "broken")
}

func TestJSONEncoding(t *testing.T) {
	r, out, _ := newBufRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(LintSummary{FilesAnalyzed: 3, TotalIssues: 7}))

	var got LintSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 3, got.FilesAnalyzed)
	assert.Equal(t, 7, got.TotalIssues)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Sections", FormatHeader(2, "Sections"))
	assert.Equal(t, "# Clamped", FormatHeader(0, "Clamped"))
	assert.Equal(t, "###### Deep", FormatHeader(9, "Deep"))

	assert.Equal(t, "- **Profile**: strategic-positioning",
		FormatKeyValue("Profile", "strategic-positioning"))

	block := FormatCodeBlock("markdown", "# Title\n")
	assert.True(t, strings.HasPrefix(block, "```markdown\n"))
	assert.True(t, strings.HasSuffix(block, "\n```"))
	assert.Equal(t, 2, strings.Count(block, "```"))
}

func TestSpinnerNonTTY(t *testing.T) {
	r, out, _ := newBufRenderer(ModeMarkdown, false)
	sp := r.NewSpinner("Generating report...")
	sp.Start()
	sp.Success("Report generated")

	assert.Contains(t, out.String(), "Generating report...")
	assert.Contains(t, out.String(), "Report generated")
	assert.NotContains(t, out.String(), "\x1b[")
}
