package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/trendbox/internal/contract"
	"gopkg.in/guregu/null.v3"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// An empty outputFile writes to stdout.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON encodes data with two-space indentation.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes a header row and then whatever writeRows emits.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	return writeRows(csvWriter)
}

// createFormatters returns plain number formatters for machine-readable output.
// fmtOptional renders an absent measure as an empty cell.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtOptional func(null.Float) string) {
	fmtFloat = func(v float64) string {
		return strconv.FormatFloat(v, 'f', precision, 64)
	}
	fmtOptional = func(v null.Float) string {
		if !v.Valid {
			return ""
		}
		return fmtFloat(v.Float64)
	}
	return fmtFloat, fmtOptional
}

// hexColor converts "#RRGGBB" or "#RGB" into a terminal color. Unparsable input yields nil.
func hexColor(hex string) *color.Color {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return nil
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil
	}
	return color.RGB(int(v>>16&0xff), int(v>>8&0xff), int(v&0xff))
}
