// Package rows adapts host tables (CSV, JSON, XLSX) into schema.RawRow values.
package rows

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/trendbox/schema"
	"github.com/rs/zerolog/log"
)

// Table is an adapted host table. Header is empty for positional sources.
type Table struct {
	Header []string
	Rows   []schema.RawRow
}

// Options describes the shape of the source.
type Options struct {
	Format schema.InputFormat
	Sheet  string // XLSX only; defaults to the first sheet
	Header bool   // CSV and XLSX: first row names the columns
}

// Load reads a table from path. An empty path or "-" reads stdin.
func Load(path string, opts Options) (Table, error) {
	if opts.Format == schema.XLSXInput {
		return ReadXLSX(path, opts.Sheet, opts.Header)
	}
	if path == "" || path == "-" {
		return Read(os.Stdin, opts)
	}
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open input %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Read(f, opts)
}

// Read reads a CSV or JSON table from r.
func Read(r io.Reader, opts Options) (Table, error) {
	switch opts.Format {
	case schema.CSVInput, "":
		return ReadCSV(r, opts.Header)
	case schema.JSONInput:
		data, err := io.ReadAll(r)
		if err != nil {
			return Table{}, fmt.Errorf("failed to read JSON input: %w", err)
		}
		return ReadJSON(data)
	default:
		return Table{}, fmt.Errorf("%w: format %q cannot be read from a stream", schema.ErrInvalidArgument, opts.Format)
	}
}

// newRow builds a RawRow carrying both positional cells and, when a header
// exists, the same cells by name. The first column wins on duplicate names.
func newRow(header, cells []string) schema.RawRow {
	row := schema.RawRow{Cells: cells}
	if len(header) == 0 {
		return row
	}
	row.Fields = make(map[string]string, len(header))
	for i, name := range header {
		if i >= len(cells) {
			break
		}
		if _, dup := row.Fields[name]; !dup {
			row.Fields[name] = cells[i]
		}
	}
	return row
}

// normalizeHeader trims header names.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}

// ResolveMapping rewrites named references as positions within header, once,
// before parsing. A date or value name missing from the header is a schema
// defect; a missing target or historical name drops that series.
func ResolveMapping(header []string, mapping schema.FieldMapping) (schema.FieldMapping, error) {
	resolve := func(ref schema.FieldRef) (schema.FieldRef, bool) {
		if ref.Position > 0 || ref.Name == "" {
			return ref, true
		}
		for i, h := range header {
			if strings.EqualFold(h, ref.Name) {
				return schema.FieldRef{Name: h, Position: i + 1}, true
			}
		}
		return ref, false
	}

	var ok bool
	if mapping.Date, ok = resolve(mapping.Date); !ok {
		return mapping, fmt.Errorf("%w: date field %q not found in header %v", schema.ErrSchema, mapping.Date.Name, header)
	}
	if mapping.Value, ok = resolve(mapping.Value); !ok {
		return mapping, fmt.Errorf("%w: value field %q not found in header %v", schema.ErrSchema, mapping.Value.Name, header)
	}
	if mapping.Target, ok = resolve(mapping.Target); !ok {
		log.Warn().Str("field", mapping.Target.Name).Msg("target field not found, target series disabled")
		mapping = mapping.WithoutTarget()
	}
	if mapping.Historical, ok = resolve(mapping.Historical); !ok {
		log.Warn().Str("field", mapping.Historical.Name).Msg("historical field not found, historical series disabled")
		mapping = mapping.WithoutHistorical()
	}
	return mapping, nil
}
