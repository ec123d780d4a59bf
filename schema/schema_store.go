package schema

import "time"

// RunRecord represents a row from the trendbox_runs table.
type RunRecord struct {
	RunID         int64
	Variant       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	RowsRead      int32
	PointsParsed  int32
	Diagnostics   int32
	Status        string
	LastValue     *float64
	WeekOverWeek  *float64
	YearOverYear  *float64
	MonthToDate   *float64
	QuarterToDate *float64
	YearToDate    *float64
	ConfigParams  *string
}

// RunPointRecord represents a row from the trendbox_run_points table.
type RunPointRecord struct {
	RunID           int64
	BucketDate      time.Time
	Value           float64
	Target          *float64
	HistoricalValue *float64
}
