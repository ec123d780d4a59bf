package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleSummary() schema.Summary {
	series := []schema.TimeSeriesPoint{
		{Date: day(2024, 3, 3), Value: 1000, Target: null.FloatFrom(1100), HistoricalValue: null.FloatFrom(950)},
		{Date: day(2024, 3, 10), Value: 1200, HistoricalValue: null.FloatFrom(950)},
	}
	box := schema.BoxScore{
		LastValue: 1200,
		GrowthMetrics: schema.GrowthMetrics{
			WeekOverWeek: null.FloatFrom(20),
			YearOverYear: null.FloatFrom(26.3158),
		},
	}
	return schema.Summary{
		Variant:  schema.SixWeekVariant,
		Status:   schema.StatusOK,
		Series:   series,
		Growth:   box.GrowthMetrics,
		BoxScore: &box,
		Items:    schema.BoxScoreItems(schema.SixWeekVariant, box, 1),
		RowsRead: 14,
		Points:   13,
		Diagnostics: []schema.Diagnostic{
			{Row: 4, Field: "sales", Input: "oops", Reason: "non-numeric value, using 0"},
		},
		Style: schema.Style{
			LineColor:       schema.DefaultLineColor,
			ShowTargets:     true,
			ShowHistorical:  true,
			ShowGrowthRates: true,
		},
	}
}

func textConfig() *contract.Config {
	return &contract.Config{
		Output:         schema.TextOut,
		Precision:      1,
		Width:          120,
		HistoryBackend: schema.NoneBackend,
	}
}

func TestWriteSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSummaryTable(&buf, sampleSummary(), textConfig(), 25*time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Six-Week Summary (2 weekly buckets)")
	assert.Contains(t, output, "2024-03-03")
	assert.Contains(t, output, "2024-03-10")
	assert.Contains(t, output, "1,200.0")
	assert.Contains(t, output, "1,100.0")
	assert.Contains(t, output, "950.0")
	assert.Contains(t, output, schema.NotAvailable, "absent target is shown as N/A")
	assert.Contains(t, output, "█")
	assert.Contains(t, output, "+20.0%")
	assert.Contains(t, output, "+26.3%")
	assert.Contains(t, output, "Summary rendered in 25ms from 14 rows (13 points, 1 diagnostics). History backend: none")
}

func TestWriteSummaryTableHidesOptionalColumns(t *testing.T) {
	summary := sampleSummary()
	summary.Style.ShowTargets = false
	summary.Style.ShowGrowthRates = false

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryTable(&buf, summary, textConfig(), time.Second))

	output := buf.String()
	assert.NotContains(t, output, "1,100.0", "target column is hidden")
	assert.NotContains(t, output, "+20.0%", "box score is hidden")
	assert.Contains(t, output, "950.0")
}

func TestWriteSummaryTableMonthly(t *testing.T) {
	summary := sampleSummary()
	summary.Variant = schema.TwelveMonthVariant
	summary.Series = []schema.TimeSeriesPoint{{Date: day(2024, 2, 1), Value: 7}}
	summary.Items = schema.BoxScoreItems(schema.TwelveMonthVariant, *summary.BoxScore, 1)

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryTable(&buf, summary, textConfig(), time.Second))

	output := buf.String()
	assert.Contains(t, output, "Twelve-Month Summary (1 monthly buckets)")
	assert.Contains(t, output, "Feb 2024")
}

func TestWriteSummaryTableNotOK(t *testing.T) {
	tests := []struct {
		status  schema.SummaryStatus
		message string
	}{
		{schema.StatusNoData, schema.MsgNoData},
		{schema.StatusInsufficient, schema.MsgInsufficient},
		{schema.StatusFailed, schema.MsgCannotRender},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			summary := schema.Summary{Variant: schema.SixWeekVariant, Status: tt.status, Message: tt.message}
			var buf bytes.Buffer
			require.NoError(t, WriteSummaryTable(&buf, summary, textConfig(), time.Second))

			output := buf.String()
			assert.Contains(t, output, tt.message)
			assert.NotContains(t, output, "█")
		})
	}
}

func TestWriteJSONSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSONSummary(&buf, sampleSummary()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "ok", decoded["status"])
	assert.Len(t, decoded["series"], 2)

	growth := decoded["growth"].(map[string]any)
	assert.Equal(t, 20.0, growth["week_over_week"])
	assert.Nil(t, growth["month_to_date"], "absent metrics are null, not zero")

	items := decoded["box_score_items"].([]any)
	require.Len(t, items, 6)
	assert.Equal(t, "Last Week", items[0].(map[string]any)["label"])
}

func TestWriteCSVSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVSummary(&buf, sampleSummary(), 1))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "bucket_date,value,target,historical_value", lines[0])
	assert.Equal(t, "2024-03-03T00:00:00Z,1000.0,1100.0,950.0", lines[1])
	assert.Equal(t, "2024-03-10T00:00:00Z,1200.0,,950.0", lines[2])
}

func TestPrintSummaryToFiles(t *testing.T) {
	dir := t.TempDir()
	modes := []schema.OutputMode{schema.TextOut, schema.JSONOut, schema.CSVOut, schema.ParquetOut}

	for _, mode := range modes {
		t.Run(string(mode), func(t *testing.T) {
			cfg := textConfig()
			cfg.Output = mode
			cfg.OutputFile = filepath.Join(dir, "summary."+string(mode))

			require.NoError(t, PrintSummary(sampleSummary(), cfg, time.Second))

			info, err := os.Stat(cfg.OutputFile)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

func TestOutWriterWriteSummary(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "summary.json")

	require.NoError(t, NewOutWriter().WriteSummary(sampleSummary(), cfg, time.Second))
	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"variant": "six-week"`)
}
