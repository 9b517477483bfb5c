package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messyReport = `---
title: Field Notes
date: 2025-03-02
---

# Field Notes

## executive summary


Two findings

| Metric | Value |
|---|---|
| Probability | 62.1% |
`

func TestFmtCommandStdout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "field-notes.md")
	require.NoError(t, os.WriteFile(path, []byte(messyReport), 0644))

	cmd := NewFmtCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "| Metric      | Value |", "tables should be aligned")
	assert.NotContains(t, output, "Two findings   ", "trailing whitespace should be trimmed")

	// The source file is untouched without --write.
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, messyReport, string(content))
}

func TestFmtCommandWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "field-notes.md")
	require.NoError(t, os.WriteFile(path, []byte(messyReport), 0644))

	cmd := NewFmtCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path, "--write"})

	err := cmd.Execute()
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, messyReport, string(content))

	// Idempotent: a second run changes nothing.
	first := string(content)
	cmd = NewFmtCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{path, "--write"})
	require.NoError(t, cmd.Execute())

	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, string(content))
}

func TestFmtCommandCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "field-notes.md")
	require.NoError(t, os.WriteFile(path, []byte(messyReport), 0644))

	cmd := NewFmtCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path, "--check"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need formatting")
	assert.Contains(t, buf.String(), path)
}

func TestFmtCommandNoReports(t *testing.T) {
	cmd := NewFmtCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "empty")})

	err := cmd.Execute()
	require.Error(t, err)
}
