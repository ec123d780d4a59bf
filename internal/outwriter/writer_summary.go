package outwriter

import (
	"encoding/csv"
	"io"

	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/schema"
)

// seriesCSVHeader names the columns of the CSV series export.
var seriesCSVHeader = []string{"bucket_date", "value", "target", "historical_value"}

// writeJSONSummary marshals the whole summary, box score and diagnostics included.
func writeJSONSummary(w io.Writer, summary schema.Summary) error {
	return writeJSON(w, summary)
}

// writeCSVSummary writes the windowed series only. Absent measures are empty cells.
func writeCSVSummary(w io.Writer, summary schema.Summary, precision int) error {
	fmtFloat, fmtOptional := createFormatters(precision)
	return writeCSVWithHeader(w, seriesCSVHeader, func(cw *csv.Writer) error {
		for _, p := range summary.Series {
			row := []string{
				p.Date.Format(contract.DateTimeFormat),
				fmtFloat(p.Value),
				fmtOptional(p.Target),
				fmtOptional(p.HistoricalValue),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
