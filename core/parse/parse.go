// Package parse turns adapted host rows into time-series points.
package parse

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/trendbox/schema"
	"gopkg.in/guregu/null.v3"
)

// Diagnostic reasons.
const (
	ReasonMissingDate  = "missing date"
	ReasonInvalidDate  = "unparsable date"
	ReasonMissingValue = "missing value, using 0"
	ReasonInvalidValue = "non-numeric value, using 0"
	ReasonInvalidField = "non-numeric optional measure, treating as absent"
)

// dateLayouts are tried in order. Date-only layouts come first since they are the common case.
var dateLayouts = []string{
	"2006-01-02",
	"20060102",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
}

var (
	errEmptyNumber  = errors.New("empty number")
	errNotFinite    = errors.New("number is not finite")
	errBadGrouping  = errors.New("malformed thousands grouping")
	thousandsGroups = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d+)?$`)
)

// Options controls how cells are interpreted.
type Options struct {
	// Location is the calendar dates are truncated in. Defaults to UTC.
	Location *time.Location
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// Parse converts rows into points using mapping. Rows with an unusable date are
// dropped and rows with an unusable value keep a value of 0; both are recorded
// as diagnostics. Output follows input order.
//
// The only fatal condition is a mapping without a date or value field.
func Parse(rows []schema.RawRow, mapping schema.FieldMapping, opts Options) ([]schema.TimeSeriesPoint, []schema.Diagnostic, error) {
	if !mapping.Date.IsSet() {
		return nil, nil, fmt.Errorf("%w: no date field declared", schema.ErrSchema)
	}
	if !mapping.Value.IsSet() {
		return nil, nil, fmt.Errorf("%w: no value field declared", schema.ErrSchema)
	}

	loc := opts.location()
	points := make([]schema.TimeSeriesPoint, 0, len(rows))
	var diags []schema.Diagnostic

	for i, row := range rows {
		rowNum := i + 1

		rawDate, ok := row.Lookup(mapping.Date)
		if !ok || strings.TrimSpace(rawDate) == "" {
			diags = append(diags, schema.Diagnostic{Row: rowNum, Field: mapping.Date.String(), Input: rawDate, Reason: ReasonMissingDate})
			continue
		}
		date, err := ParseDate(rawDate, loc)
		if err != nil {
			diags = append(diags, schema.Diagnostic{Row: rowNum, Field: mapping.Date.String(), Input: rawDate, Reason: ReasonInvalidDate})
			continue
		}

		point := schema.TimeSeriesPoint{Date: date}

		rawValue, ok := row.Lookup(mapping.Value)
		switch {
		case !ok || strings.TrimSpace(rawValue) == "":
			diags = append(diags, schema.Diagnostic{Row: rowNum, Field: mapping.Value.String(), Input: rawValue, Reason: ReasonMissingValue})
		default:
			v, err := ParseNumber(rawValue)
			if err != nil {
				diags = append(diags, schema.Diagnostic{Row: rowNum, Field: mapping.Value.String(), Input: rawValue, Reason: ReasonInvalidValue})
			} else {
				point.Value = v
			}
		}

		if mapping.Target.IsSet() {
			var d *schema.Diagnostic
			point.Target, d = optionalMeasure(row, mapping.Target, rowNum)
			if d != nil {
				diags = append(diags, *d)
			}
		}
		if mapping.Historical.IsSet() {
			var d *schema.Diagnostic
			point.HistoricalValue, d = optionalMeasure(row, mapping.Historical, rowNum)
			if d != nil {
				diags = append(diags, *d)
			}
		}

		points = append(points, point)
	}

	return points, diags, nil
}

// optionalMeasure reads a target or historical cell. A blank or missing cell is
// simply absent; a non-blank cell that fails to parse is absent with a diagnostic.
func optionalMeasure(row schema.RawRow, ref schema.FieldRef, rowNum int) (null.Float, *schema.Diagnostic) {
	raw, ok := row.Lookup(ref)
	if !ok || strings.TrimSpace(raw) == "" {
		return null.Float{}, nil
	}
	v, err := ParseNumber(raw)
	if err != nil {
		return null.Float{}, &schema.Diagnostic{Row: rowNum, Field: ref.String(), Input: raw, Reason: ReasonInvalidField}
	}
	return null.FloatFrom(v), nil
}

// ParseDate parses s with the supported layouts and truncates the result to
// midnight of its calendar day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		y, m, d := t.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseNumber parses a measure cell. Commas are accepted only as well-formed
// thousands separators and non-finite results are rejected.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmptyNumber
	}
	if strings.Contains(s, ",") {
		if !thousandsGroups.MatchString(s) {
			return 0, errBadGrouping
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}
