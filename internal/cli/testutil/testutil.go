// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/dia3-labs/brief/internal/cli/output"
)

// SetupTestCorpus creates a temporary project with sample reports and
// returns its root directory.
func SetupTestCorpus(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	dirs := []string{
		filepath.Join(tmpDir, "reports", "pacific"),
		filepath.Join(tmpDir, "profiles"),
		filepath.Join(tmpDir, "scenarios"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	assessment := `---
date: 2025-06-14
classification: UNCLASSIFIED
scenario: pacific-posture
---

# Pacific Posture Assessment

## Executive Summary

- Success Probability: 74.9%

## Geographic Analysis

Terrain constrains the northern approach.

## Monte Carlo Simulation Results

- Iterations: 10,000
- Confidence Interval: 70.2-79.6%

## Optimal Strategic Positions

Forward basing on the eastern arc.

## Strategic Recommendations

Reinforce the eastern arc first.

## Methodology

Simulation over historical engagement data.

## Conclusion

- Success Probability: 74.9%
`
	if err := os.WriteFile(filepath.Join(tmpDir, "reports", "pacific", "assessment.md"),
		[]byte(assessment), 0644); err != nil {
		t.Fatalf("failed to create assessment.md: %v", err)
	}

	summary := `---
profile: project-summary
date: 2025-06-20
---

# Quarterly Summary

## Overview

Two scenarios assessed this quarter.
`
	if err := os.WriteFile(filepath.Join(tmpDir, "reports", "summary.md"),
		[]byte(summary), 0644); err != nil {
		t.Fatalf("failed to create summary.md: %v", err)
	}

	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and
// TTY state. Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererAuto creates a renderer with auto mode detection. In
// tests, non-TTY defaults to markdown output.
func NewTestRendererAuto() *TestRenderer {
	return NewTestRenderer(output.ModeAuto, false)
}

// NewTestRendererText creates a renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the captured stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the captured stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// Reset clears both output buffers.
func (tr *TestRenderer) Reset() {
	tr.Out.Reset()
	tr.ErrOut.Reset()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation: balanced code
// fences and non-empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
