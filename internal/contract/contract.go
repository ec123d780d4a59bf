// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/trendbox/schema"
)

// HistoryManager defines the interface for reaching the run-history store.
// This allows the history layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for recording finished pipeline invocations.
// Nothing recorded here is ever read back into a computation.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(variant schema.Variant, startTime time.Time, configParams map[string]any) (int64, error)

	// RecordPoints stores the windowed series of a run
	RecordPoints(runID int64, points []schema.TimeSeriesPoint) error

	// EndRun updates the run with completion data taken from its summary
	EndRun(runID int64, endTime time.Time, summary schema.Summary) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllRunPoints returns every recorded point ordered by run and bucket
	GetAllRunPoints() ([]schema.RunPointRecord, error)

	// Close closes the underlying connection
	Close() error
}

// OutputWriter defines the interface for presenting a rendered summary.
// This allows the output layer to be mocked for testing.
type OutputWriter interface {
	WriteSummary(summary schema.Summary, cfg *Config, duration time.Duration) error
	WriteFields(cfg *Config) error
}
