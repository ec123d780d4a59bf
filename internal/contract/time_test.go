package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

// TestParseRelativeTime covers various valid and invalid cases.
func TestParseRelativeTime(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{
			name:     "valid plural months (mixed case)",
			input:    "3 MoNtHs AgO",
			expected: fixedNow.AddDate(0, -3, 0),
		},
		{
			name:     "valid singular week (capitalized)",
			input:    "1 Week Ago",
			expected: fixedNow.AddDate(0, 0, -7),
		},
		{
			name:     "valid 10 days (upper case)",
			input:    "10 DAYS AGO",
			expected: fixedNow.AddDate(0, 0, -10),
		},
		{
			name:     "hours",
			input:    "36 hours ago",
			expected: fixedNow.Add(-36 * time.Hour),
		},
		{
			name:        "invalid missing ago",
			input:       "2 years",
			expectError: true,
		},
		{
			name:        "invalid bad unit (decades)",
			input:       "4 decades ago",
			expectError: true,
		},
		{
			name:        "invalid non-numeric value",
			input:       "one year ago",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeTime(tt.input, fixedNow)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %v, got %v", tt.expected, got)
		})
	}
}

func TestParseReferenceTime(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       string
		loc         *time.Location
		expected    time.Time
		expectError bool
	}{
		{"empty means now", "", time.UTC, fixedNow, false},
		{"date only", "2024-06-30", time.UTC, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), false},
		{"date only in zone", "2024-06-30", ny, time.Date(2024, time.June, 30, 0, 0, 0, 0, ny), false},
		{"rfc3339", "2024-06-30T12:00:00Z", time.UTC, time.Date(2024, time.June, 30, 12, 0, 0, 0, time.UTC), false},
		{"relative", "2 months ago", time.UTC, fixedNow.AddDate(0, -2, 0), false},
		{"nil location defaults to utc", "2024-01-01", nil, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), false},
		{"garbage", "last tuesday", time.UTC, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReferenceTime(tt.input, fixedNow, tt.loc)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %v, got %v", tt.expected, got)
		})
	}
}

// FuzzParseRelativeTime checks that accepted inputs never land in the future.
func FuzzParseRelativeTime(f *testing.F) {
	seeds := []string{
		"1 year ago",
		"2 months ago",
		"3 weeks ago",
		"4 days ago",
		"5 hours ago",
		"6 minutes ago",
		"0 years ago",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		got, err := ParseRelativeTime(input, fixedNow)
		if err != nil {
			return
		}
		if got.After(fixedNow) {
			t.Errorf("ParseRelativeTime(%q) = %v is after now", input, got)
		}
	})
}
