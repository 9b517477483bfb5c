package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.starlark.net/starlark"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dia3-labs/brief/pkg/format"
	"github.com/dia3-labs/brief/pkg/schema"
)

// DefaultScale is the score scale assumed when a position declares none.
const DefaultScale = 10

var groupedInt = message.NewPrinter(language.English)

// Generate renders the scenario as Markdown under its profile's section
// layout and normalizes the result through the formatter. The output
// passes structure linting for the profile by construction: every required
// section is present in canonical order, and sections that require a
// figure carry one.
func Generate(sc *Scenario, macros starlark.StringDict) ([]byte, error) {
	profile, err := resolveProfile(sc)
	if err != nil {
		return nil, err
	}

	derived, err := EvalAll(sc, macros)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	writeFrontmatter(&b, sc, profile)

	fmt.Fprintf(&b, "# %s\n", sc.Title)

	for _, sec := range profile.Sections {
		body := sectionBody(sc, profile, sec, derived)
		if body == "" {
			if !sec.Required {
				continue
			}
			body = placeholderBody(sc, sec)
		}
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", sec.Title, strings.TrimRight(body, "\n"))
	}

	return format.Format([]byte(b.String()), format.Options{Profile: profile})
}

// OutputPath returns the report path for a scenario under reportsDir.
func OutputPath(reportsDir string, sc *Scenario) string {
	return filepath.Join(reportsDir, sc.Name+".md")
}

func resolveProfile(sc *Scenario) (*schema.Profile, error) {
	name := sc.Profile
	if name == "" {
		name = schema.ProfileStrategicPositioning
	}
	profile, ok := schema.Get(name)
	if !ok {
		return nil, fmt.Errorf("scenario %s: unknown profile %q", sc.Name, name)
	}
	return profile, nil
}

func writeFrontmatter(b *strings.Builder, sc *Scenario, profile *schema.Profile) {
	date := sc.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	classification := sc.Classification
	if classification == "" {
		classification = profile.AcceptedClassifications()[0]
	}

	b.WriteString("---\n")
	fmt.Fprintf(b, "title: %s\n", sc.Title)
	fmt.Fprintf(b, "date: %s\n", date)
	fmt.Fprintf(b, "classification: %s\n", classification)
	fmt.Fprintf(b, "profile: %s\n", profile.Name)
	fmt.Fprintf(b, "scenario: %s\n", sc.Name)
	b.WriteString("---\n")
}

// sectionBody produces the body text for one profile section. Known
// strategic sections render from the structured scenario fields; anything
// else falls back to the free-form Sections map.
func sectionBody(sc *Scenario, profile *schema.Profile, sec schema.SectionSpec, derived map[string]float64) string {
	if body, ok := lookupSection(sc.Sections, sec.Title); ok {
		return body
	}

	switch {
	case strings.EqualFold(sec.Title, "Executive Summary"):
		return executiveSummary(sc)
	case strings.EqualFold(sec.Title, "Geographic Analysis"):
		return sc.Geography
	case strings.EqualFold(sec.Title, "Monte Carlo Simulation Results"):
		return simulationResults(sc, derived)
	case strings.EqualFold(sec.Title, "Optimal Strategic Positions"):
		return positionsTable(sc)
	case strings.EqualFold(sec.Title, "Historical Comparison"):
		return historicalComparison(sc)
	case strings.EqualFold(sec.Title, "Art of War Principles Analysis"):
		return principlesList(sc)
	case strings.EqualFold(sec.Title, "Strategic Recommendations"):
		return recommendationsList(sc)
	case strings.EqualFold(sec.Title, "Methodology"):
		return methodology(sc)
	case strings.EqualFold(sec.Title, "Conclusion"):
		return conclusion(sc)
	}
	return ""
}

func lookupSection(sections map[string]string, title string) (string, bool) {
	for key, body := range sections {
		if strings.EqualFold(key, title) {
			return body, true
		}
	}
	return "", false
}

// placeholderBody fills a required section the scenario supplied nothing
// for. When the section requires a figure, the scenario's keyed metrics
// are rendered so the document still carries one.
func placeholderBody(sc *Scenario, sec schema.SectionSpec) string {
	if sec.RequiresMetric {
		var b strings.Builder
		fmt.Fprintf(&b, "- **Success Probability**: %s%%\n", formatFigure(sc.SuccessProbability))
		for _, key := range sc.MetricKeys() {
			fmt.Fprintf(&b, "- **%s**: %s\n", metricLabel(key), formatFigure(sc.Metrics[key]))
		}
		return b.String()
	}
	return fmt.Sprintf("No %s content was provided for this scenario.", strings.ToLower(sec.Title))
}

func executiveSummary(sc *Scenario) string {
	var b strings.Builder
	if sc.Summary != "" {
		b.WriteString(strings.TrimRight(sc.Summary, "\n"))
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "- **Success Probability**: %s%%\n", formatFigure(sc.SuccessProbability))
	if ci := sc.ConfidenceInterval; ci != nil {
		fmt.Fprintf(&b, "- **Confidence Interval**: %s-%s%%\n",
			formatFigure(ci.Low), formatFigure(ci.High))
	}
	return b.String()
}

func simulationResults(sc *Scenario, derived map[string]float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- **Iterations**: %s\n", groupedInt.Sprintf("%d", sc.Iterations))
	fmt.Fprintf(&b, "- **Success Probability**: %s%%\n", formatFigure(sc.SuccessProbability))
	if ci := sc.ConfidenceInterval; ci != nil {
		fmt.Fprintf(&b, "- **Confidence Interval**: %s-%s%%\n",
			formatFigure(ci.Low), formatFigure(ci.High))
	}
	for _, key := range sc.MetricKeys() {
		fmt.Fprintf(&b, "- **%s**: %s\n", metricLabel(key), formatFigure(sc.Metrics[key]))
	}
	for _, key := range sc.DerivedKeys() {
		fmt.Fprintf(&b, "- **%s**: %s\n", metricLabel(key), formatFigure(derived[key]))
	}
	return b.String()
}

func positionsTable(sc *Scenario) string {
	if len(sc.Positions) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("| Position | Score | Rationale |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, p := range sc.Positions {
		scale := p.Scale
		if scale == 0 {
			scale = DefaultScale
		}
		fmt.Fprintf(&b, "| %s | %s/%s | %s |\n",
			p.Name, formatFigure(p.Score), formatFigure(scale), p.Rationale)
	}
	return b.String()
}

func historicalComparison(sc *Scenario) string {
	if len(sc.History) == 0 {
		return ""
	}
	var b strings.Builder
	for i, h := range sc.History {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "### %s\n\n", h.Conflict)
		if h.Outcome != "" {
			fmt.Fprintf(&b, "Outcome: %s\n", h.Outcome)
		}
		if h.Parallel != "" {
			if h.Outcome != "" {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "Parallel: %s\n", h.Parallel)
		}
	}
	return b.String()
}

func principlesList(sc *Scenario) string {
	if len(sc.Principles) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range sc.Principles {
		fmt.Fprintf(&b, "- **%s**: %s\n", p.Name, p.Assessment)
	}
	return b.String()
}

func recommendationsList(sc *Scenario) string {
	if len(sc.Recommendations) == 0 {
		return ""
	}
	var b strings.Builder
	for i, r := range sc.Recommendations {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}
	return b.String()
}

func methodology(sc *Scenario) string {
	if sc.Methodology != "" {
		return sc.Methodology
	}
	iterations := groupedInt.Sprintf("%d", sc.Iterations)
	return fmt.Sprintf(
		"Position scores combine terrain, logistics, and force-posture factors "+
			"on a %d-point scale. Outcome probabilities were estimated over %s "+
			"Monte Carlo iterations with positional scores perturbed per iteration.",
		DefaultScale, iterations)
}

func conclusion(sc *Scenario) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The assessed course of action carries a success probability of %s%%",
		formatFigure(sc.SuccessProbability))
	if ci := sc.ConfidenceInterval; ci != nil {
		fmt.Fprintf(&b, " (%s-%s%% confidence interval)", formatFigure(ci.Low), formatFigure(ci.High))
	}
	b.WriteString(".")
	if n := len(sc.Recommendations); n > 0 {
		fmt.Fprintf(&b, " The %d recommendations above follow directly from the positional analysis.", n)
	}
	b.WriteString("\n")
	return b.String()
}

// formatFigure renders a float without trailing zero noise: whole values
// print bare, fractional values keep one decimal place.
func formatFigure(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// metricLabel turns a snake_case metric key into a display label.
func metricLabel(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
