package output

import (
	"fmt"
	"strings"
)

// FormatHeader formats a Markdown heading at the given level.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue formats a bolded key/value pair for Markdown output.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s**: %s", key, value)
}

// FormatCodeBlock wraps content in a fenced code block.
func FormatCodeBlock(lang, content string) string {
	return fmt.Sprintf("```%s\n%s\n```", lang, strings.TrimRight(content, "\n"))
}
