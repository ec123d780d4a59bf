package rows

import (
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads one worksheet of a workbook. An empty sheet name selects the first sheet.
func ReadXLSX(path, sheet string, header bool) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open workbook %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("workbook %q has no sheets", path)
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return Table{}, fmt.Errorf("sheet %q not found in workbook %q (have %v)", sheet, path, sheets)
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	var t Table
	for _, record := range records {
		if header && t.Header == nil {
			t.Header = normalizeHeader(record)
			continue
		}
		if len(record) == 0 {
			continue
		}
		t.Rows = append(t.Rows, newRow(t.Header, record))
	}
	return t, nil
}
