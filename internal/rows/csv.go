package rows

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ReadCSV reads comma separated rows. Ragged rows are kept as-is; a missing
// cell is simply absent when looked up.
func ReadCSV(r io.Reader, header bool) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var t Table
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("failed to read CSV: %w", err)
		}
		if header && t.Header == nil {
			t.Header = normalizeHeader(record)
			continue
		}
		t.Rows = append(t.Rows, newRow(t.Header, record))
	}
	return t, nil
}
