package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinProfilesRegistered(t *testing.T) {
	for _, name := range []string{ProfileStrategicPositioning, ProfileProjectSummary} {
		p, ok := Get(name)
		require.True(t, ok, "profile %s not registered", name)
		assert.NoError(t, p.Validate())
	}
}

func TestStrategicPositioningLayout(t *testing.T) {
	p := StrategicPositioning

	required := p.RequiredSections()
	assert.Contains(t, required, "Executive Summary")
	assert.Contains(t, required, "Conclusion")
	assert.NotContains(t, required, "Historical Comparison")

	// Conclusion restates figures, so it must carry a metric.
	sec := p.Section("conclusion")
	require.NotNil(t, sec)
	assert.True(t, sec.RequiresMetric)

	assert.Equal(t, 0, p.SectionIndex("Executive Summary"))
	assert.Equal(t, -1, p.SectionIndex("Annex"))
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr string
	}{
		{"no name", Profile{}, "name is required"},
		{"untitled section", Profile{Name: "x", Sections: []SectionSpec{{}}}, "no title"},
		{
			"duplicate section",
			Profile{Name: "x", Sections: []SectionSpec{{Title: "A"}, {Title: "a"}}},
			"twice",
		},
		{"valid", Profile{Name: "x", Sections: []SectionSpec{{Title: "A"}}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestResolveExplicitWins(t *testing.T) {
	p := Resolve(ProfileProjectSummary, []string{"Executive Summary", "Conclusion", "Methodology"})
	require.NotNil(t, p)
	assert.Equal(t, ProfileProjectSummary, p.Name)
}

func TestResolveHeuristicMatch(t *testing.T) {
	p := Resolve("", []string{"Executive Summary", "Methodology", "Conclusion"})
	require.NotNil(t, p)
	assert.Equal(t, ProfileStrategicPositioning, p.Name)
}

func TestResolveNoMatch(t *testing.T) {
	assert.Nil(t, Resolve("", []string{"Random Notes"}))
	assert.Nil(t, Resolve("nonexistent", []string{"Random Notes"}))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	profileYAML := `name: field-assessment
sections:
  - title: Situation
    required: true
  - title: Assessment
    required: true
    requires_metric: true
  - title: Outlook
classifications: [UNCLASSIFIED, RESTRICTED]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "field-assessment.yaml"), []byte(profileYAML), 0o644))

	loaded, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	p, ok := Get("field-assessment")
	require.True(t, ok)
	assert.Equal(t, []string{"Situation", "Assessment"}, p.RequiredSections())
	assert.Equal(t, []string{"UNCLASSIFIED", "RESTRICTED"}, p.AcceptedClassifications())
}

func TestLoadDirMissingIsNotError(t *testing.T) {
	loaded, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLoadFileNameDefaultsToBasename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watch-brief.yml")
	require.NoError(t, os.WriteFile(path, []byte("sections:\n  - title: Summary\n"), 0o644))

	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "watch-brief", p.Name)
}
