package rows

import (
	"fmt"

	"github.com/huangsam/trendbox/schema"
	"github.com/tidwall/gjson"
)

// ReadJSON reads one of the supported JSON table shapes:
//   - an array of objects keyed by field name
//   - an array of arrays (positional)
//   - a dashboard envelope {"fields": {...}, "tables": {"DEFAULT": [...]}}
//
// Cells may be scalars, {"value": x} wrappers or single-element arrays.
func ReadJSON(data []byte) (Table, error) {
	if !gjson.ValidBytes(data) {
		return Table{}, fmt.Errorf("%w: input is not valid JSON", schema.ErrInvalidArgument)
	}
	return FromJSON(gjson.ParseBytes(data))
}

// FromJSON adapts an already parsed JSON document.
func FromJSON(doc gjson.Result) (Table, error) {
	rows := doc
	var header []string
	if doc.IsObject() {
		rows = doc.Get("tables.DEFAULT")
		if !rows.Exists() {
			rows = doc.Get("rows")
		}
		header = envelopeHeader(doc.Get("fields"))
	}
	if !rows.IsArray() {
		return Table{}, fmt.Errorf("%w: expected an array of rows, got %s", schema.ErrInvalidArgument, rows.Type)
	}

	if header == nil {
		header = unionKeys(rows)
	}

	var t Table
	var err error
	rows.ForEach(func(_, row gjson.Result) bool {
		switch {
		case row.IsArray():
			t.Rows = append(t.Rows, schema.RawRow{Cells: cellsOf(row)})
		case row.IsObject():
			t.Rows = append(t.Rows, objectRow(header, row))
		default:
			err = fmt.Errorf("%w: row must be an object or array, got %s", schema.ErrInvalidArgument, row.Type)
			return false
		}
		return true
	})
	if err != nil {
		return Table{}, err
	}
	t.Header = header
	return t, nil
}

// envelopeHeader orders the envelope's declared fields as dimension first,
// then measures, which is what positional references address.
func envelopeHeader(fields gjson.Result) []string {
	if !fields.Exists() {
		return nil
	}
	var header []string
	for _, group := range []string{"dimensions", "measures"} {
		fields.Get(group).ForEach(func(_, f gjson.Result) bool {
			name := f.Get("name").String()
			if name == "" {
				name = f.Get("id").String()
			}
			header = append(header, name)
			return true
		})
	}
	return header
}

// unionKeys collects the keys of every object row in first-seen order, since
// a row may omit keys that later rows carry.
func unionKeys(rows gjson.Result) []string {
	var keys []string
	seen := make(map[string]bool)
	rows.ForEach(func(_, row gjson.Result) bool {
		if !row.IsObject() {
			return true
		}
		row.ForEach(func(k, _ gjson.Result) bool {
			if name := k.String(); !seen[name] {
				seen[name] = true
				keys = append(keys, name)
			}
			return true
		})
		return true
	})
	return keys
}

// objectRow lays an object's cells out in header order and keeps every key by name.
func objectRow(header []string, obj gjson.Result) schema.RawRow {
	row := schema.RawRow{
		Cells:  make([]string, len(header)),
		Fields: make(map[string]string),
	}
	obj.ForEach(func(k, v gjson.Result) bool {
		row.Fields[k.String()] = cellText(v)
		return true
	})
	for i, name := range header {
		row.Cells[i] = row.Fields[name]
	}
	return row
}

func cellsOf(arr gjson.Result) []string {
	var cells []string
	arr.ForEach(func(_, v gjson.Result) bool {
		cells = append(cells, cellText(v))
		return true
	})
	return cells
}

// cellText unwraps {"value": x} and [x] and renders the scalar as text.
// null renders as the empty string.
func cellText(v gjson.Result) string {
	for v.IsObject() || v.IsArray() {
		if v.IsObject() {
			v = v.Get("value")
		} else {
			v = v.Get("0")
		}
	}
	if v.Type == gjson.Null {
		return ""
	}
	return v.String()
}
