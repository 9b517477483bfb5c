package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScenario = `name: pacific-posture
title: Pacific Posture Assessment
profile: strategic-positioning
classification: UNCLASSIFIED
date: 2026-01-05
success_probability: 74.9
confidence_interval:
  low: 70.2
  high: 79.6
iterations: 10000
summary: |
  Forward positioning along the northern approaches offers the strongest
  defensive posture.
geography: |
  The theater divides into three maritime corridors.
positions:
  - name: Northern Ridge
    score: 8.2
    rationale: Controls both approach corridors
  - name: Coastal Shelf
    score: 6.4
    rationale: Resupply-friendly but exposed
recommendations:
  - Harden the northern corridor garrisons first.
derived:
  mean_position_score: 'round(mean([p["score"] for p in positions]), 1)'
`

// setupGenerateProject creates a project with one scenario and changes
// into it for the duration of the test.
func setupGenerateProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	require.NoError(t, os.MkdirAll("scenarios", 0755))
	require.NoError(t, os.WriteFile(filepath.Join("scenarios", "pacific-posture.yaml"),
		[]byte(testScenario), 0644))
	return tmpDir
}

func TestGenerateCommand(t *testing.T) {
	tmpDir := setupGenerateProject(t)

	cmd := NewGenerateCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	err := cmd.Execute()
	require.NoError(t, err)

	reportPath := filepath.Join(tmpDir, "reports", "pacific-posture.md")
	content, err := os.ReadFile(reportPath)
	require.NoError(t, err, "generated report should exist")

	report := string(content)
	assert.Contains(t, report, "# Pacific Posture Assessment")
	assert.Contains(t, report, "## Executive Summary")
	assert.Contains(t, report, "## Monte Carlo Simulation Results")
	assert.Contains(t, report, "74.9%")
	assert.Contains(t, report, "Mean Position Score")
}

func TestGenerateCommandRefusesOverwrite(t *testing.T) {
	setupGenerateProject(t)

	cmd := NewGenerateCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	require.NoError(t, cmd.Execute())

	// Second run without --force must refuse to clobber the report.
	cmd = NewGenerateCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// With --force it regenerates.
	cmd = NewGenerateCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--force"})
	require.NoError(t, cmd.Execute())
}

func TestGenerateCommandStdout(t *testing.T) {
	tmpDir := setupGenerateProject(t)

	cmd := NewGenerateCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"pacific-posture", "--stdout"})

	err := cmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "# Pacific Posture Assessment")

	_, statErr := os.Stat(filepath.Join(tmpDir, "reports", "pacific-posture.md"))
	assert.True(t, os.IsNotExist(statErr), "--stdout should not write report files")
}

func TestGenerateCommandUnknownScenario(t *testing.T) {
	setupGenerateProject(t)

	cmd := NewGenerateCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"no-such-scenario"})

	err := cmd.Execute()
	require.Error(t, err)
}
