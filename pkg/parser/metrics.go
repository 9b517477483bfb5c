package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/token"
)

// Metric extraction operates on raw section text rather than the Markdown
// AST: the value formats that matter ("74.9%", "7.2/10", "10,000+") are
// plain-text conventions, and report authors write them in bullets, bold
// labels, and bare paragraphs alike.

// metricLinePattern matches "Key: value" lines, with optional bullet and
// bold markers around the key: "- **Success Probability**: 74.9%".
var metricLinePattern = regexp.MustCompile(`^\s*(?:[-*+]\s+)?\*{0,2}([A-Za-z][A-Za-z0-9 ()/%&'-]{0,79}?)\*{0,2}\s*:\s+(\S.*)$`)

var (
	intervalPattern = regexp.MustCompile(`^(\d[\d,]*(?:\.\d+)?)\s*%?\s*(?:-|–|—|to)\s*(\d[\d,]*(?:\.\d+)?)\s*(%?)`)
	percentPattern  = regexp.MustCompile(`^(-?\d[\d,]*(?:\.\d+)?)\s*%`)
	scorePattern    = regexp.MustCompile(`^(\d[\d,]*(?:\.\d+)?)\s*/\s*(\d[\d,]*(?:\.\d+)?)(?:\s|$)`)
	numberPattern   = regexp.MustCompile(`^(-?\d[\d,]*(?:\.\d+)?)(\+?)(?:\s|$)`)
	isoDatePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

// extractMetrics scans section body text for metric lines. startLine is
// the source line of the body's first non-blank line; metric positions
// count lines from there.
func extractMetrics(body, section string, startLine int) []core.Metric {
	if body == "" {
		return nil
	}

	var metrics []core.Metric
	line := startLine
	for _, raw := range strings.Split(body, "\n") {
		if m := metricLinePattern.FindStringSubmatch(raw); m != nil {
			if metric, ok := parseMetricValue(m[2]); ok {
				metric.Key = strings.TrimSpace(m[1])
				metric.Section = section
				metric.Pos = token.Position{Line: line, Col: 1}
				metrics = append(metrics, metric)
				line++
				continue
			}
		}
		metrics = append(metrics, proseFigures(raw, section, line)...)
		line++
	}
	return metrics
}

var (
	proseIntervalPattern = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)%?\s*(?:-|–|—|to)\s*(\d[\d,]*(?:\.\d+)?)%`)
	prosePercentPattern  = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)%`)
)

// proseFigures extracts unkeyed percent figures and ranges mentioned in
// running text, so range restatements ("in the 70.0% - 80.0% range") are
// visible to lint without a "Key: value" line.
func proseFigures(raw, section string, line int) []core.Metric {
	var metrics []core.Metric
	covered := make([]bool, len(raw))

	for _, loc := range proseIntervalPattern.FindAllStringSubmatchIndex(raw, -1) {
		low, err1 := parseNumber(raw[loc[2]:loc[3]])
		high, err2 := parseNumber(raw[loc[4]:loc[5]])
		if err1 != nil || err2 != nil {
			continue
		}
		for i := loc[0]; i < loc[1]; i++ {
			covered[i] = true
		}
		metrics = append(metrics, core.Metric{
			RawValue: raw[loc[0]:loc[1]],
			Value:    low,
			Valid:    true,
			Unit:     core.UnitPercent,
			Interval: &core.Interval{Low: low, High: high},
			Section:  section,
			Pos:      token.Position{Line: line, Col: loc[0] + 1},
		})
	}

	for _, loc := range prosePercentPattern.FindAllStringSubmatchIndex(raw, -1) {
		if covered[loc[0]] {
			continue
		}
		v, err := parseNumber(raw[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		metrics = append(metrics, core.Metric{
			RawValue: raw[loc[0]:loc[1]],
			Value:    v,
			Valid:    true,
			Unit:     core.UnitPercent,
			Section:  section,
			Pos:      token.Position{Line: line, Col: loc[0] + 1},
		})
	}

	return metrics
}

// parseMetricValue classifies and parses a metric value. It returns false
// when the value is prose rather than a figure (no digits, or a date).
// Values that look numeric but fail to parse come back with Valid=false so
// lint can flag them.
func parseMetricValue(raw string) (core.Metric, bool) {
	value := strings.TrimSpace(raw)
	metric := core.Metric{RawValue: value}
	// "~74.9%" means approximately; parse the figure it approximates.
	value = strings.TrimPrefix(value, "~")

	if !strings.ContainsAny(value, "0123456789") {
		return metric, false
	}
	if isoDatePattern.MatchString(value) {
		return metric, false
	}
	// Prose that happens to mention a number ("reviewed by 3 analysts")
	// starts with a letter; figures start with the number itself.
	if !startsNumeric(value) {
		return metric, false
	}

	if m := intervalPattern.FindStringSubmatch(value); m != nil {
		low, err1 := parseNumber(m[1])
		high, err2 := parseNumber(m[2])
		if err1 == nil && err2 == nil {
			metric.Valid = true
			metric.Value = low
			metric.Interval = &core.Interval{Low: low, High: high}
			if m[3] == "%" || strings.Contains(value, "%") {
				metric.Unit = core.UnitPercent
			} else {
				metric.Unit = core.UnitPlain
			}
			return metric, true
		}
	}

	if m := scorePattern.FindStringSubmatch(value); m != nil {
		score, err1 := parseNumber(m[1])
		scale, err2 := parseNumber(m[2])
		if err1 == nil && err2 == nil && scale > 0 {
			metric.Valid = true
			metric.Value = score
			metric.Scale = scale
			metric.Unit = core.UnitScore
			return metric, true
		}
	}

	if m := percentPattern.FindStringSubmatch(value); m != nil {
		if v, err := parseNumber(m[1]); err == nil {
			metric.Valid = true
			metric.Value = v
			metric.Unit = core.UnitPercent
			return metric, true
		}
	}

	if m := numberPattern.FindStringSubmatch(value); m != nil {
		if v, err := parseNumber(m[1]); err == nil {
			metric.Valid = true
			metric.Value = v
			if strings.Contains(m[1], ",") || m[2] == "+" {
				metric.Unit = core.UnitCount
			} else {
				metric.Unit = core.UnitPlain
			}
			return metric, true
		}
	}

	// Looks like a figure but did not parse ("74.9.3%", "7.2/").
	metric.Unit = core.UnitPlain
	return metric, true
}

func startsNumeric(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return (c >= '0' && c <= '9') || c == '-' || c == '.'
}

func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(s, 64)
}
