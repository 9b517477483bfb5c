package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string) // setup before running
		args      []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name:    "init empty directory",
			args:    []string{},
			wantErr: false,
			wantFiles: []string{
				"brief.yaml",
				".gitignore",
				"reports",
				"profiles",
				filepath.Join("reports", "example-summary.md"),
				filepath.Join("profiles", "field-review.yaml"),
			},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "brief.yaml"), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "brief.yaml"), []byte("existing"), 0600)
			},
			args:    []string{"--force"},
			wantErr: false,
			wantFiles: []string{
				"brief.yaml",
				"reports",
			},
		},
		{
			name:    "init example corpus",
			args:    []string{"--example"},
			wantErr: false,
			wantFiles: []string{
				"brief.yaml",
				filepath.Join("reports", "pacific-posture.md"),
				filepath.Join("scenarios", "pacific-posture.yaml"),
				filepath.Join("macros", "stats.star"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temp directory and change to it
			tmpDir := t.TempDir()
			oldWd, _ := os.Getwd()
			require.NoError(t, os.Chdir(tmpDir))
			defer func() { _ = os.Chdir(oldWd) }()

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for _, f := range tt.wantFiles {
				path := filepath.Join(tmpDir, f)
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "expected file/dir %q to exist", f)
			}
		})
	}
}

func TestInitCommandIntoDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(oldWd) }()

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"field-briefings"})

	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(tmpDir, "field-briefings", "brief.yaml"))
	assert.NoError(t, err, "brief.yaml should exist in the target directory")
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("force"), "--force flag should exist")
	assert.NotNil(t, cmd.Flags().Lookup("example"), "--example flag should exist")
}

func TestInitCreatesValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(oldWd) }()

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile("brief.yaml")
	require.NoError(t, err, "failed to read brief.yaml")

	expectedContents := []string{
		"reports_dir: reports",
		"profiles_dir: profiles",
		"state_path:",
		"store:",
	}
	for _, expected := range expectedContents {
		assert.Contains(t, string(content), expected, "config should contain %q", expected)
	}
}

func TestGroupTemplateFiles(t *testing.T) {
	files := []string{
		"brief.yaml",
		".gitignore",
		"reports/pacific-posture.md",
		"profiles/field-review.yaml",
		"scenarios/pacific-posture.yaml",
		"macros/stats.star",
	}
	groups := groupTemplateFiles(files)

	assert.Contains(t, groups["config"], "brief.yaml")
	assert.Contains(t, groups["reports"], "reports/pacific-posture.md")
	assert.Contains(t, groups["profiles"], "profiles/field-review.yaml")
	assert.Contains(t, groups["scenarios"], "scenarios/pacific-posture.yaml")
	assert.Contains(t, groups["macros"], "macros/stats.star")
}
