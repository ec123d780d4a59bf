// Package schema has models, enums and shared errors for all parts of trendbox.
package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// RawRow is one host row after adaptation. Cells holds positional values
// and Fields holds named values; an adapter fills whichever its source has.
type RawRow struct {
	Cells  []string          `json:"cells,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Lookup returns the cell addressed by ref and whether it exists.
func (r RawRow) Lookup(ref FieldRef) (string, bool) {
	if ref.Position > 0 {
		if ref.Position > len(r.Cells) {
			return "", false
		}
		return r.Cells[ref.Position-1], true
	}
	if ref.Name != "" && r.Fields != nil {
		v, ok := r.Fields[ref.Name]
		return v, ok
	}
	return "", false
}

// FieldRef addresses a row field by name or by 1-based position.
type FieldRef struct {
	Name     string `json:"name,omitempty"`
	Position int    `json:"position,omitempty"`
}

// IsSet reports whether the reference addresses anything.
func (f FieldRef) IsSet() bool {
	return f.Name != "" || f.Position > 0
}

// String renders the reference the way users type it: a name or "#N".
func (f FieldRef) String() string {
	if f.Position > 0 {
		return "#" + strconv.Itoa(f.Position)
	}
	return f.Name
}

// ParseFieldRef reads "#3" as position 3 and anything else as a field name.
// An empty string yields an unset reference.
func ParseFieldRef(s string) (FieldRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FieldRef{}, nil
	}
	if rest, ok := strings.CutPrefix(s, "#"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return FieldRef{}, fmt.Errorf("%w: field position must be a positive integer (received %q)", ErrInvalidArgument, s)
		}
		return FieldRef{Position: n}, nil
	}
	return FieldRef{Name: s}, nil
}

// FieldMapping says which row fields hold the date dimension and the measures.
// Target and Historical are optional; an unset ref means the series is not configured.
type FieldMapping struct {
	Date       FieldRef `json:"date"`
	Value      FieldRef `json:"value"`
	Target     FieldRef `json:"target"`
	Historical FieldRef `json:"historical"`
}

// WithoutTarget returns a copy of the mapping with the target series disabled.
func (m FieldMapping) WithoutTarget() FieldMapping {
	m.Target = FieldRef{}
	return m
}

// WithoutHistorical returns a copy of the mapping with the historical series disabled.
func (m FieldMapping) WithoutHistorical() FieldMapping {
	m.Historical = FieldRef{}
	return m
}

// Diagnostic records a recoverable row defect.
type Diagnostic struct {
	Row    int    `json:"row"` // 1-based index into the input rows
	Field  string `json:"field"`
	Input  string `json:"input"`
	Reason string `json:"reason"`
}

// String formats the diagnostic for log lines.
func (d Diagnostic) String() string {
	return fmt.Sprintf("row %d field %s: %s (input %q)", d.Row, d.Field, d.Reason, d.Input)
}
