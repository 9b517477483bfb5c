package output

// JSON payload types shared by commands. Field names form the stable
// machine-readable contract, so changes here are breaking.

// LintOutput is the JSON payload of the lint command.
type LintOutput struct {
	Files   []LintFileResult `json:"files"`
	Summary LintSummary      `json:"summary"`
}

// LintFileResult groups diagnostics for one report.
type LintFileResult struct {
	Path        string           `json:"path"`
	Diagnostics []LintDiagnostic `json:"diagnostics"`
}

// LintDiagnostic is a single finding.
type LintDiagnostic struct {
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// LintSummary aggregates finding counts.
type LintSummary struct {
	FilesAnalyzed int `json:"files_analyzed"`
	TotalIssues   int `json:"total_issues"`
	Errors        int `json:"errors"`
	Warnings      int `json:"warnings"`
	Info          int `json:"info"`
	Hints         int `json:"hints"`
}

// ListOutput is the JSON payload of the list command.
type ListOutput struct {
	Reports []ReportInfo `json:"reports"`
	Summary ListSummary  `json:"summary"`
}

// ReportInfo describes one report in list output.
type ReportInfo struct {
	Path           string       `json:"path"`
	Title          string       `json:"title"`
	Profile        string       `json:"profile,omitempty"`
	Classification string       `json:"classification,omitempty"`
	Scenario       string       `json:"scenario,omitempty"`
	Date           string       `json:"date,omitempty"`
	Sections       int          `json:"sections"`
	Metrics        int          `json:"metrics"`
	LastRun        *LastRunInfo `json:"last_run,omitempty"`
}

// LastRunInfo describes the most recent indexed state of a report.
type LastRunInfo struct {
	IndexedAt   string `json:"indexed_at"`
	ContentHash string `json:"content_hash"`
}

// ListSummary aggregates list counts.
type ListSummary struct {
	Total    int `json:"total"`
	Profiled int `json:"profiled"`
}

// IndexOutput is the JSON payload of the index command.
type IndexOutput struct {
	RunID   string       `json:"run_id"`
	Summary IndexSummary `json:"summary"`
}

// IndexSummary aggregates index counts.
type IndexSummary struct {
	ReportsTotal   int    `json:"reports_total"`
	ReportsChanged int    `json:"reports_changed"`
	ReportsSkipped int    `json:"reports_skipped"`
	StatePath      string `json:"state_path"`
}

// GenerateOutput is the JSON payload of the generate command.
type GenerateOutput struct {
	Scenario string `json:"scenario"`
	Path     string `json:"path"`
	Markdown string `json:"markdown,omitempty"`
}

// HealthCheck is one doctor check result.
type HealthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "failed"
	Message string `json:"message,omitempty"`
}

// DoctorOutput is the JSON payload of the doctor command.
type DoctorOutput struct {
	Checks          []HealthCheck `json:"checks"`
	Healthy         bool          `json:"healthy"`
	Recommendations []string      `json:"recommendations,omitempty"`
}
