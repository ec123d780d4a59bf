// Package parquet provides data structures and functions for exporting trendbox
// series and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/trendbox/schema"
	"github.com/parquet-go/parquet-go"
)

// SeriesPoint is one bucket of a windowed series.
type SeriesPoint struct {
	// BucketDate is the start of the week or month bucket
	BucketDate time.Time `parquet:"bucket_date,snappy"`

	// Value is the bucket mean of the primary measure
	Value float64 `parquet:"value,snappy"`

	// Target is the bucket mean of the target measure (nullable)
	Target *float64 `parquet:"target,optional,snappy"`

	// HistoricalValue is the bucket mean of the prior-period measure (nullable)
	HistoricalValue *float64 `parquet:"historical_value,optional,snappy"`
}

// Run represents a single recorded pipeline invocation.
// This struct maps to the trendbox_runs database table.
type Run struct {
	RunID         int64      `parquet:"run_id,snappy"`
	Variant       string     `parquet:"variant,snappy"`
	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`
	RowsRead      int32      `parquet:"rows_read,snappy"`
	PointsParsed  int32      `parquet:"points_parsed,snappy"`
	Diagnostics   int32      `parquet:"diagnostics,snappy"`
	Status        string     `parquet:"status,snappy"`
	LastValue     *float64   `parquet:"last_value,optional,snappy"`
	WeekOverWeek  *float64   `parquet:"week_over_week,optional,snappy"`
	YearOverYear  *float64   `parquet:"year_over_year,optional,snappy"`
	MonthToDate   *float64   `parquet:"month_to_date,optional,snappy"`
	QuarterToDate *float64   `parquet:"quarter_to_date,optional,snappy"`
	YearToDate    *float64   `parquet:"year_to_date,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RunPoint is one windowed bucket recorded for a run.
// This struct maps to the trendbox_run_points database table.
type RunPoint struct {
	RunID int64 `parquet:"run_id,snappy"`
	SeriesPoint
}

// WriteSeriesParquet writes a windowed series to a Parquet file.
func WriteSeriesParquet(data []SeriesPoint, outputPath string) error {
	return writeRecords(data, outputPath)
}

// WriteRunsParquet writes recorded runs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeRecords(data, outputPath)
}

// WriteRunPointsParquet writes recorded run points to a Parquet file.
func WriteRunPointsParquet(data []RunPoint, outputPath string) error {
	return writeRecords(data, outputPath)
}

// writeRecords writes rows of T using the schema inferred from T's struct tags.
func writeRecords[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertSeries converts time-series points to Parquet rows.
func ConvertSeries(points []schema.TimeSeriesPoint) []SeriesPoint {
	result := make([]SeriesPoint, len(points))
	for i, p := range points {
		result[i] = SeriesPoint{
			BucketDate:      p.Date,
			Value:           p.Value,
			Target:          schema.NullableFloat(p.Target),
			HistoricalValue: schema.NullableFloat(p.HistoricalValue),
		}
	}
	return result
}

// ConvertRunRecords converts schema.RunRecord to parquet.Run.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, r := range records {
		result[i] = Run{
			RunID:         r.RunID,
			Variant:       r.Variant,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			RunDurationMs: r.RunDurationMs,
			RowsRead:      r.RowsRead,
			PointsParsed:  r.PointsParsed,
			Diagnostics:   r.Diagnostics,
			Status:        r.Status,
			LastValue:     r.LastValue,
			WeekOverWeek:  r.WeekOverWeek,
			YearOverYear:  r.YearOverYear,
			MonthToDate:   r.MonthToDate,
			QuarterToDate: r.QuarterToDate,
			YearToDate:    r.YearToDate,
			ConfigParams:  r.ConfigParams,
		}
	}
	return result
}

// ConvertRunPointRecords converts schema.RunPointRecord to parquet.RunPoint.
func ConvertRunPointRecords(records []schema.RunPointRecord) []RunPoint {
	result := make([]RunPoint, len(records))
	for i, r := range records {
		result[i] = RunPoint{
			RunID: r.RunID,
			SeriesPoint: SeriesPoint{
				BucketDate:      r.BucketDate,
				Value:           r.Value,
				Target:          r.Target,
				HistoricalValue: r.HistoricalValue,
			},
		}
	}
	return result
}
