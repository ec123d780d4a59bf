package outwriter

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/internal/parquet"
	"github.com/huangsam/trendbox/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSummary outputs a summary, dispatching based on the output format configured.
func PrintSummary(summary schema.Summary, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONSummary(w, summary)
		}, "Wrote JSON summary"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSummary(w, summary, cfg.Precision)
		}, "Wrote CSV series"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteSeriesParquet(parquet.ConvertSeries(summary.Series), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet series to %s\n", cfg.OutputFile)
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteSummaryTable(w, summary, cfg, duration)
		}, "Wrote table"); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// WriteSummaryTable writes the human-readable series and box score tables.
// A summary that is not ok only gets its message.
func WriteSummaryTable(w io.Writer, summary schema.Summary, cfg *contract.Config, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "📈 %s\n", variantTitle(summary.Variant, len(summary.Series))); err != nil {
		return err
	}

	if !summary.OK() {
		if _, err := fmt.Fprintf(w, "⚠️  %s\n", summary.Message); err != nil {
			return err
		}
		return writeFooter(w, summary, cfg, duration)
	}

	if err := writeSeriesTable(w, summary, cfg); err != nil {
		return err
	}
	if summary.Style.ShowGrowthRates && summary.BoxScore != nil {
		if err := writeBoxScoreTable(w, summary, cfg); err != nil {
			return err
		}
	}
	return writeFooter(w, summary, cfg, duration)
}

// writeSeriesTable renders one row per bucket with an optional trend bar.
func writeSeriesTable(w io.Writer, summary schema.Summary, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)

	headers := []string{bucketHeader(summary.Variant), "Value"}
	if summary.Style.ShowTargets {
		headers = append(headers, "Target")
	}
	if summary.Style.ShowHistorical {
		headers = append(headers, "Prior Year")
	}
	headers = append(headers, "Trend")
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	barWidth := GetMaxBarWidth(cfg)
	peak := peakMagnitude(summary.Series)
	barColor := hexColor(summary.Style.LineColor)

	var data [][]string
	for _, p := range summary.Series {
		row := []string{
			bucketLabel(summary.Variant, p.Date),
			schema.FormatValue(p.Value, cfg.Precision),
		}
		if summary.Style.ShowTargets {
			row = append(row, schema.FormatOptional(p.Target, cfg.Precision))
		}
		if summary.Style.ShowHistorical {
			row = append(row, schema.FormatOptional(p.HistoricalValue, cfg.Precision))
		}
		bar := trendBar(p.Value, peak, barWidth)
		if cfg.UseColors && barColor != nil {
			bar = barColor.Sprint(bar)
		}
		row = append(row, bar)
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeBoxScoreTable renders the box score as a single labeled row.
func writeBoxScoreTable(w io.Writer, summary schema.Summary, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)

	headers := make([]string, len(summary.Items))
	row := make([]string, len(summary.Items))
	rates := summary.BoxScore.Rates()
	for i, item := range summary.Items {
		headers[i] = item.Label
		row[i] = item.Display
		if cfg.UseColors && i > 0 && i-1 < len(rates) {
			row[i] = contract.GetColorPercent(rates[i-1], item.Display)
		}
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignCenter
	})

	if err := table.Append(row); err != nil {
		return err
	}
	return table.Render()
}

func writeFooter(w io.Writer, summary schema.Summary, cfg *contract.Config, duration time.Duration) error {
	_, err := fmt.Fprintf(w, "Summary rendered in %v from %d rows (%d points, %d diagnostics). History backend: %s\n",
		duration, summary.RowsRead, summary.Points, len(summary.Diagnostics), cfg.HistoryBackend)
	return err
}

// variantTitle returns the heading printed above the tables.
func variantTitle(v schema.Variant, buckets int) string {
	switch v {
	case schema.TwelveMonthVariant:
		return fmt.Sprintf("Twelve-Month Summary (%d monthly buckets)", buckets)
	default:
		return fmt.Sprintf("Six-Week Summary (%d weekly buckets)", buckets)
	}
}

func bucketHeader(v schema.Variant) string {
	if v == schema.TwelveMonthVariant {
		return "Month"
	}
	return "Week Of"
}

// bucketLabel formats a bucket start for display.
func bucketLabel(v schema.Variant, date time.Time) string {
	if v == schema.TwelveMonthVariant {
		return date.Format("Jan 2006")
	}
	return date.Format("2006-01-02")
}

// peakMagnitude returns the largest absolute bucket value.
func peakMagnitude(series []schema.TimeSeriesPoint) float64 {
	var peak float64
	for _, p := range series {
		peak = math.Max(peak, math.Abs(p.Value))
	}
	return peak
}

// trendBar scales |value| against peak into at most width cells.
// Negative values use a lighter glyph.
func trendBar(value, peak float64, width int) string {
	if peak <= 0 || width <= 0 {
		return ""
	}
	n := int(math.Round(math.Abs(value) / peak * float64(width)))
	glyph := "█"
	if value < 0 {
		glyph = "░"
	}
	return strings.Repeat(glyph, n)
}
