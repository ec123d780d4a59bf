package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// relativeTimeRe captures "N [units] ago", e.g. "2 years ago", "3 weeks ago".
var relativeTimeRe = regexp.MustCompile(`^(\d{1,4})\s+(year|month|week|day|hour|minute)s?\s+ago$`)

// referenceLayouts are accepted for absolute reference times.
var referenceLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseRelativeTime converts strings like "2 years ago" into a time.Time in the past.
// Calendar units go through AddDate so month lengths are respected.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid relative time value %q: %w", matches[1], err)
	}

	switch matches[2] {
	case "year":
		return now.AddDate(-value, 0, 0), nil
	case "month":
		return now.AddDate(0, -value, 0), nil
	case "week":
		return now.AddDate(0, 0, -7*value), nil
	case "day":
		return now.AddDate(0, 0, -value), nil
	case "hour":
		return now.Add(time.Duration(-value) * time.Hour), nil
	default: // minute
		return now.Add(time.Duration(-value) * time.Minute), nil
	}
}

// ParseReferenceTime resolves the --now flag. An empty string means now; otherwise
// the value is an absolute date/time (interpreted in loc when it carries no zone)
// or a relative "N [units] ago" expression.
func ParseReferenceTime(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	if s == "" {
		return now.In(loc), nil
	}
	for _, layout := range referenceLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}
	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reference time %q. Expected RFC3339, YYYY-MM-DD or 'N [units] ago'", s)
	}
	return t.In(loc), nil
}
