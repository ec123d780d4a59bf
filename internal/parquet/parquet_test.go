package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/trendbox/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"series", new(SeriesPoint), []string{"bucket_date", "value", "target", "historical_value"}},
		{"run", new(Run), []string{"run_id", "variant", "start_time", "end_time", "run_duration_ms", "rows_read", "status", "week_over_week", "year_to_date", "config_params"}},
		{"run point", new(RunPoint), []string{"run_id", "bucket_date", "value", "target", "historical_value"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			for _, col := range tt.columns {
				_, ok := s.Lookup(col)
				assert.True(t, ok, "column %s should exist", col)
			}
		})
	}
}

func TestWriteSeriesParquet(t *testing.T) {
	points := []schema.TimeSeriesPoint{
		{Date: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), Value: 10, Target: null.FloatFrom(12)},
		{Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Value: 11, HistoricalValue: null.FloatFrom(9)},
	}
	path := filepath.Join(t.TempDir(), "series.parquet")
	require.NoError(t, WriteSeriesParquet(ConvertSeries(points), path))

	got := readAll[SeriesPoint](t, path)
	require.Len(t, got, 2)
	assert.True(t, points[0].Date.Equal(got[0].BucketDate))
	assert.Equal(t, 10.0, got[0].Value)
	require.NotNil(t, got[0].Target)
	assert.Equal(t, 12.0, *got[0].Target)
	assert.Nil(t, got[0].HistoricalValue)
	assert.Nil(t, got[1].Target)
	require.NotNil(t, got[1].HistoricalValue)
	assert.Equal(t, 9.0, *got[1].HistoricalValue)
}

func TestWriteRunsParquet(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 123456789, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	dur := int32(1500)
	wow := 4.2
	params := `{"weeks":6}`

	records := []schema.RunRecord{
		{RunID: 1, Variant: "six-week", StartTime: start, EndTime: &end, RunDurationMs: &dur, RowsRead: 40, PointsParsed: 39, Diagnostics: 1, Status: "ok", WeekOverWeek: &wow, ConfigParams: &params},
		{RunID: 2, Variant: "twelve-month", StartTime: start, Status: "failed"},
	}
	path := filepath.Join(t.TempDir(), "runs.parquet")
	require.NoError(t, WriteRunsParquet(ConvertRunRecords(records), path))

	got := readAll[Run](t, path)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].RunID)
	assert.WithinDuration(t, start, got[0].StartTime, time.Nanosecond)
	require.NotNil(t, got[0].EndTime)
	assert.WithinDuration(t, end, *got[0].EndTime, time.Nanosecond)
	assert.Equal(t, wow, *got[0].WeekOverWeek)
	assert.Equal(t, params, *got[0].ConfigParams)
	assert.Nil(t, got[1].EndTime)
	assert.Nil(t, got[1].RunDurationMs)
	assert.Nil(t, got[1].WeekOverWeek)
	assert.Equal(t, "failed", got[1].Status)
}

func TestWriteRunPointsParquet(t *testing.T) {
	target := 5.0
	records := []schema.RunPointRecord{
		{RunID: 7, BucketDate: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), Value: 3, Target: &target},
	}
	path := filepath.Join(t.TempDir(), "points.parquet")
	require.NoError(t, WriteRunPointsParquet(ConvertRunPointRecords(records), path))

	got := readAll[RunPoint](t, path)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].RunID)
	assert.Equal(t, target, *got[0].Target)
	assert.Nil(t, got[0].HistoricalValue)
}

func TestWriteEmptyData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteSeriesParquet(nil, path))
	assert.Empty(t, readAll[SeriesPoint](t, path))
}

func TestWriteInvalidPath(t *testing.T) {
	err := WriteRunsParquet(nil, filepath.Join(t.TempDir(), "missing", "runs.parquet"))
	assert.Error(t, err)
}
