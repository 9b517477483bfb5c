package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dia3-labs/brief/pkg/core"
)

// FrontmatterResult holds the result of frontmatter extraction.
type FrontmatterResult struct {
	Front   core.Frontmatter
	Body    []byte // document content after the frontmatter block
	HasYAML bool   // whether a frontmatter block was found
	Offset  int    // byte offset of Body within the original source
}

// frontmatterPattern matches a leading --- ... --- block.
var frontmatterPattern = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---\r?\n`)

// ExtractFrontmatter extracts the YAML frontmatter from a briefing document.
// Documents without frontmatter are returned unchanged.
func ExtractFrontmatter(src []byte) (*FrontmatterResult, error) {
	result := &FrontmatterResult{Body: src}

	loc := frontmatterPattern.FindSubmatchIndex(src)
	if loc == nil {
		return result, nil
	}

	result.HasYAML = true
	result.Offset = loc[1]
	result.Body = src[loc[1]:]

	front, err := parseFrontmatterYAML(src[loc[2]:loc[3]])
	if err != nil {
		return nil, err
	}
	result.Front = front
	return result, nil
}

// parseFrontmatterYAML decodes frontmatter in strict mode so typos in field
// names surface as errors instead of silently dropped metadata.
func parseFrontmatterYAML(raw []byte) (core.Frontmatter, error) {
	var front core.Frontmatter
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&front); err != nil {
		return core.Frontmatter{}, fmt.Errorf("invalid frontmatter: %w", friendlyYAMLError(err))
	}
	return front, nil
}

// friendlyYAMLError strips the "yaml: " prefix that yaml.v3 prepends, since
// the caller already says "invalid frontmatter".
func friendlyYAMLError(err error) error {
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	return fmt.Errorf("%s", msg)
}
