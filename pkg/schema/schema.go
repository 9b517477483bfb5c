// Package schema defines report profiles: the section layout a briefing
// document of a given kind is expected to follow. Profiles drive structure
// linting, formatting, and generation.
//
// Two profiles ship builtin: "strategic-positioning" (the full positioning
// analysis layout) and "project-summary" (completion summaries). Additional
// profiles load from YAML files in the project's profiles directory.
package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// SectionSpec describes one expected section of a profile.
type SectionSpec struct {
	Title          string `yaml:"title"`
	Required       bool   `yaml:"required"`
	AllowRepeat    bool   `yaml:"allow_repeat"`
	RequiresMetric bool   `yaml:"requires_metric"` // section must contain at least one figure
}

// Profile is the expected layout of a report kind. Section order in the
// slice is the canonical document order.
type Profile struct {
	Name     string        `yaml:"name"`
	Sections []SectionSpec `yaml:"sections"`

	// Classifications lists accepted classification markings. Empty means
	// the default set (see DefaultClassifications).
	Classifications []string `yaml:"classifications"`
}

// DefaultClassifications are the markings accepted when a profile does not
// declare its own.
var DefaultClassifications = []string{
	"UNCLASSIFIED",
	"UNCLASSIFIED//FOUO",
	"CONFIDENTIAL",
	"SECRET",
	"TOP SECRET",
}

// Section returns the spec for a title (case-insensitive), or nil.
func (p *Profile) Section(title string) *SectionSpec {
	for i := range p.Sections {
		if strings.EqualFold(p.Sections[i].Title, title) {
			return &p.Sections[i]
		}
	}
	return nil
}

// SectionIndex returns the canonical position of a section title, or -1.
func (p *Profile) SectionIndex(title string) int {
	for i := range p.Sections {
		if strings.EqualFold(p.Sections[i].Title, title) {
			return i
		}
	}
	return -1
}

// RequiredSections returns the titles of all required sections in order.
func (p *Profile) RequiredSections() []string {
	var out []string
	for _, s := range p.Sections {
		if s.Required {
			out = append(out, s.Title)
		}
	}
	return out
}

// AcceptedClassifications returns the profile's marking set.
func (p *Profile) AcceptedClassifications() []string {
	if len(p.Classifications) > 0 {
		return p.Classifications
	}
	return DefaultClassifications
}

// Validate checks a profile for internal consistency.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	seen := make(map[string]bool)
	for _, s := range p.Sections {
		key := strings.ToLower(s.Title)
		if s.Title == "" {
			return fmt.Errorf("profile %q has a section with no title", p.Name)
		}
		if seen[key] {
			return fmt.Errorf("profile %q lists section %q twice", p.Name, s.Title)
		}
		seen[key] = true
	}
	return nil
}

// =============================================================================
// Registry
// =============================================================================

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Profile)
)

// Register adds a profile to the global registry, replacing any profile
// with the same name.
func Register(p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[p.Name] = p
	return nil
}

// Get returns a registered profile by name.
func Get(name string) (*Profile, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	p, ok := registry[name]
	return p, ok
}

// Names returns all registered profile names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve picks the profile for a report. Precedence: the explicit name
// (from frontmatter or config), then the best heuristic match on section
// overlap, then nil.
func Resolve(explicit string, sectionTitles []string) *Profile {
	if explicit != "" {
		if p, ok := Get(explicit); ok {
			return p
		}
	}
	return bestMatch(sectionTitles)
}

// bestMatch returns the profile sharing the most section titles with the
// document, requiring at least two overlapping titles. Ties resolve by
// name for determinism.
func bestMatch(sectionTitles []string) *Profile {
	have := make(map[string]bool, len(sectionTitles))
	for _, t := range sectionTitles {
		have[strings.ToLower(t)] = true
	}

	registryMu.RLock()
	defer registryMu.RUnlock()

	var best *Profile
	bestScore := 1 // require overlap > 1
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := registry[name]
		score := 0
		for _, s := range p.Sections {
			if have[strings.ToLower(s.Title)] {
				score++
			}
		}
		if score > bestScore {
			best = p
			bestScore = score
		}
	}
	return best
}
