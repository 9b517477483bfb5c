// Package render generates briefing Markdown from scenario definitions.
// A scenario YAML file carries the analysis inputs (positions, principles,
// simulation figures) plus optional Starlark expressions for derived
// metrics; Generate turns one scenario into a report that conforms to its
// profile's section layout.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dia3-labs/brief/pkg/schema"
)

// Position is one candidate strategic position with its composite score.
type Position struct {
	Name      string  `yaml:"name"`
	Score     float64 `yaml:"score"`
	Scale     float64 `yaml:"scale"`
	Rationale string  `yaml:"rationale"`
}

// Principle is one doctrinal principle with its assessment for the
// scenario.
type Principle struct {
	Name       string `yaml:"name"`
	Assessment string `yaml:"assessment"`
}

// Comparison pairs the scenario with a historical precedent.
type Comparison struct {
	Conflict string `yaml:"conflict"`
	Outcome  string `yaml:"outcome"`
	Parallel string `yaml:"parallel"`
}

// Interval is a closed numeric range, used for confidence bounds.
type Interval struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// Scenario is the input to report generation. Name doubles as the report
// filename stem, so it should be kebab-case.
type Scenario struct {
	Name           string `yaml:"name"`
	Title          string `yaml:"title"`
	Profile        string `yaml:"profile"`
	Classification string `yaml:"classification"`
	Date           string `yaml:"date"`

	// SuccessProbability and ConfidenceInterval are the headline
	// simulation outputs, in percent.
	SuccessProbability float64   `yaml:"success_probability"`
	ConfidenceInterval *Interval `yaml:"confidence_interval"`
	Iterations         int64     `yaml:"iterations"`

	Positions  []Position   `yaml:"positions"`
	Principles []Principle  `yaml:"principles"`
	History    []Comparison `yaml:"history"`

	// Metrics are extra keyed figures rendered into the results section.
	Metrics map[string]float64 `yaml:"metrics"`

	// Derived maps metric keys to Starlark expressions evaluated against
	// the scenario data (see Evaluator).
	Derived map[string]string `yaml:"derived"`

	Summary         string   `yaml:"summary"`
	Geography       string   `yaml:"geography"`
	Methodology     string   `yaml:"methodology"`
	Recommendations []string `yaml:"recommendations"`

	// Sections carries free-form body text for profile sections the
	// structured fields above do not cover, keyed by section title.
	Sections map[string]string `yaml:"sections"`
}

// Validate checks the scenario for the fields generation cannot default.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if s.Title == "" {
		return fmt.Errorf("scenario %q: title is required", s.Name)
	}
	if s.Profile != "" {
		if _, ok := schema.Get(s.Profile); !ok {
			return fmt.Errorf("scenario %q: unknown profile %q", s.Name, s.Profile)
		}
	}
	if ci := s.ConfidenceInterval; ci != nil && ci.Low > ci.High {
		return fmt.Errorf("scenario %q: confidence interval bounds are inverted (%.1f > %.1f)",
			s.Name, ci.Low, ci.High)
	}
	return nil
}

// MetricKeys returns the extra metric keys in sorted order, so generated
// output is stable across runs.
func (s *Scenario) MetricKeys() []string {
	keys := make([]string, 0, len(s.Metrics))
	for k := range s.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DerivedKeys returns the derived metric keys in sorted order.
func (s *Scenario) DerivedKeys() []string {
	keys := make([]string, 0, len(s.Derived))
	for k := range s.Derived {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadScenario reads and validates one scenario YAML file. Unknown fields
// are rejected, matching the frontmatter loader's strictness.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var sc Scenario
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", filepath.Base(path), err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadDir loads every .yaml/.yml scenario in dir, sorted by filename.
// A missing directory yields an empty slice.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read scenarios directory: %w", err)
	}

	var scenarios []*Scenario
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		sc, err := LoadScenario(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// FindScenario loads the scenario named name from dir, matching either the
// declared name or the filename stem.
func FindScenario(dir, name string) (*Scenario, error) {
	scenarios, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, sc := range scenarios {
		if sc.Name == name {
			return sc, nil
		}
	}
	return nil, fmt.Errorf("scenario %q not found in %s", name, dir)
}
