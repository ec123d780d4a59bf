package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/trendbox/schema"
)

// writeJSONFields writes the field definitions in JSON format.
func writeJSONFields(w io.Writer, m *schema.FieldsRenderModel) error {
	return writeJSON(w, m)
}

// writeCSVFields writes one row per field definition.
func writeCSVFields(w io.Writer, m *schema.FieldsRenderModel) error {
	header := []string{"flag", "role", "required", "current", "description"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, f := range m.Fields {
			record := []string{f.Flag, f.Role, strconv.FormatBool(f.Required), f.Current, f.Description}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
