package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldRef(t *testing.T) {
	tests := []struct {
		input       string
		want        FieldRef
		expectError bool
	}{
		{"", FieldRef{}, false},
		{"  ", FieldRef{}, false},
		{"date", FieldRef{Name: "date"}, false},
		{" revenue ", FieldRef{Name: "revenue"}, false},
		{"#1", FieldRef{Position: 1}, false},
		{"#12", FieldRef{Position: 12}, false},
		{"#0", FieldRef{}, true},
		{"#-2", FieldRef{}, true},
		{"#abc", FieldRef{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFieldRef(tt.input)
			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldRefString(t *testing.T) {
	assert.Equal(t, "#3", FieldRef{Position: 3}.String())
	assert.Equal(t, "sales", FieldRef{Name: "sales"}.String())
	assert.False(t, FieldRef{}.IsSet())
	assert.True(t, FieldRef{Position: 1}.IsSet())
}

func TestRawRowLookup(t *testing.T) {
	positional := RawRow{Cells: []string{"2024-01-01", "100"}}
	named := RawRow{Fields: map[string]string{"day": "2024-01-01", "sales": "100"}}

	v, ok := positional.Lookup(FieldRef{Position: 2})
	assert.True(t, ok)
	assert.Equal(t, "100", v)

	_, ok = positional.Lookup(FieldRef{Position: 3})
	assert.False(t, ok, "position past the last cell is missing")

	_, ok = positional.Lookup(FieldRef{Name: "sales"})
	assert.False(t, ok, "positional rows have no names")

	v, ok = named.Lookup(FieldRef{Name: "day"})
	assert.True(t, ok)
	assert.Equal(t, "2024-01-01", v)

	_, ok = named.Lookup(FieldRef{})
	assert.False(t, ok)
}

func TestFieldMappingToggles(t *testing.T) {
	m := FieldMapping{
		Date:       FieldRef{Name: "d"},
		Value:      FieldRef{Name: "v"},
		Target:     FieldRef{Name: "t"},
		Historical: FieldRef{Name: "h"},
	}

	assert.False(t, m.WithoutTarget().Target.IsSet())
	assert.True(t, m.WithoutTarget().Historical.IsSet())
	assert.False(t, m.WithoutHistorical().Historical.IsSet())
	assert.True(t, m.Target.IsSet(), "original mapping is untouched")
}

func TestVariantLabels(t *testing.T) {
	assert.Equal(t, WeekGranularity, SixWeekVariant.BucketGranularity())
	assert.Equal(t, MonthGranularity, TwelveMonthVariant.BucketGranularity())
	assert.Equal(t, "Last Week", SixWeekVariant.LastValueLabel())
	assert.Equal(t, "Last Month", TwelveMonthVariant.LastValueLabel())
}
