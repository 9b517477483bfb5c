package core

import "time"

// =============================================================================
// Index Store
// =============================================================================

// Store persists the corpus index: indexed reports, their sections and
// metrics, and the history of lint/index runs. Implemented by
// internal/state.SQLiteStore and internal/state.PostgresStore.
type Store interface {
	// Migrate brings the schema up to date.
	Migrate() error

	// Close releases the underlying connection.
	Close() error

	// BeginRun records the start of a run ("index" or "lint").
	BeginRun(kind string) (*Run, error)

	// EndRun finalizes a run with its status and totals.
	EndRun(runID string, status RunStatus, reports, diagnostics int) error

	// GetRun returns a run by ID.
	GetRun(runID string) (*Run, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]Run, error)

	// UpsertReport inserts or updates a report record keyed by path,
	// returning its row ID.
	UpsertReport(rec ReportRecord) (int64, error)

	// ReplaceSections replaces the stored section rows for a report.
	ReplaceSections(reportID int64, secs []SectionRecord) error

	// ReplaceMetrics replaces the stored metric samples for a report.
	ReplaceMetrics(reportID int64, metrics []MetricSample) error

	// RecordDiagnostics appends lint findings for a run.
	RecordDiagnostics(runID string, reportID int64, diags []DiagnosticRecord) error

	// ListReports returns all indexed reports ordered by path.
	ListReports() ([]ReportRecord, error)

	// GetReport returns an indexed report by corpus path.
	GetReport(path string) (*ReportRecord, error)

	// MetricHistory returns samples for a scenario/key pair, newest first.
	MetricHistory(scenario, key string, limit int) ([]MetricSample, error)
}

// =============================================================================
// Runs
// =============================================================================

// RunStatus represents the lifecycle state of a run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one indexing or linting pass over the corpus.
type Run struct {
	ID          string
	Kind        string // "index" or "lint"
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Reports     int
	Diagnostics int
}

// =============================================================================
// Records
// =============================================================================

// ReportRecord is the persisted form of an indexed report.
type ReportRecord struct {
	ID             int64
	Path           string
	Title          string
	Profile        string
	Classification string
	Scenario       string
	Date           string
	ContentHash    string // sha256 of the file contents, for change detection
	SectionCount   int
	MetricCount    int
	IndexedAt      time.Time
}

// SectionRecord is the persisted form of a report section.
type SectionRecord struct {
	Title    string
	Level    int
	Position int // 0-based order within the report
	Words    int
}

// MetricSample is one extracted metric value at index time.
type MetricSample struct {
	Scenario   string
	Section    string
	Key        string
	Value      float64
	Unit       string
	RecordedAt time.Time
}

// DiagnosticRecord is the persisted form of a lint finding.
type DiagnosticRecord struct {
	RuleID   string
	Severity string
	Line     int
	Col      int
	Message  string
}
