package schema

// Builtin profile names.
const (
	ProfileStrategicPositioning = "strategic-positioning"
	ProfileProjectSummary       = "project-summary"
)

// StrategicPositioning is the canonical layout of a strategic positioning
// analysis report.
var StrategicPositioning = &Profile{
	Name: ProfileStrategicPositioning,
	Sections: []SectionSpec{
		{Title: "Executive Summary", Required: true, RequiresMetric: true},
		{Title: "Geographic Analysis", Required: true},
		{Title: "Monte Carlo Simulation Results", Required: true, RequiresMetric: true},
		{Title: "Optimal Strategic Positions", Required: true},
		{Title: "Historical Comparison"},
		{Title: "Art of War Principles Analysis"},
		{Title: "Strategic Recommendations", Required: true},
		{Title: "Methodology", Required: true},
		{Title: "Conclusion", Required: true, RequiresMetric: true},
	},
}

// ProjectSummary is the layout of a project completion summary.
var ProjectSummary = &Profile{
	Name: ProfileProjectSummary,
	Sections: []SectionSpec{
		{Title: "Overview", Required: true},
		{Title: "Completed Work", Required: true},
		{Title: "Outcomes", RequiresMetric: true},
		{Title: "Open Items"},
		{Title: "Next Steps", Required: true},
	},
}

func init() {
	for _, p := range []*Profile{StrategicPositioning, ProjectSummary} {
		if err := Register(p); err != nil {
			panic(err)
		}
	}
}
