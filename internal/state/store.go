// Package state persists the corpus index: indexed reports, their sections
// and metric samples, and the history of index/lint runs. SQLite is the
// default backend; a Postgres backend serves shared deployments.
package state

import (
	"github.com/dia3-labs/brief/pkg/core"
)

// Type aliases so store code and callers share core's vocabulary.
type (
	// Store is an alias for core.Store.
	Store = core.Store

	// RunStatus is an alias for core.RunStatus.
	RunStatus = core.RunStatus

	// Run is an alias for core.Run.
	Run = core.Run

	// ReportRecord is an alias for core.ReportRecord.
	ReportRecord = core.ReportRecord

	// SectionRecord is an alias for core.SectionRecord.
	SectionRecord = core.SectionRecord

	// MetricSample is an alias for core.MetricSample.
	MetricSample = core.MetricSample

	// DiagnosticRecord is an alias for core.DiagnosticRecord.
	DiagnosticRecord = core.DiagnosticRecord
)

// Re-export run statuses from core.
const (
	RunStatusRunning   = core.RunStatusRunning
	RunStatusCompleted = core.RunStatusCompleted
	RunStatusFailed    = core.RunStatusFailed
)

// Run kinds.
const (
	RunKindIndex = "index"
	RunKindLint  = "lint"
)
