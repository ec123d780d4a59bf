package contract

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

func TestGetColorPercent(t *testing.T) {
	tests := []struct {
		name  string
		value null.Float
		text  string
	}{
		{"gain", null.FloatFrom(12.5), "+12.5%"},
		{"loss", null.FloatFrom(-3), "-3.0%"},
		{"flat", null.FloatFrom(0), "+0.0%"},
		{"absent", null.Float{}, "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, GetColorPercent(tt.value, tt.text), tt.text)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetHistoryDBFilePath(t *testing.T) {
	path := GetHistoryDBFilePath()
	assert.True(t, strings.HasSuffix(path, ".trendbox_history.db"))
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "short", TruncateLabel("short", 10))
	assert.Equal(t, "quarter...", TruncateLabel("quarter-to-date", 10))
	assert.Equal(t, "abcdef", TruncateLabel("abcdef", 3), "too narrow to truncate")
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{" 1 ", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigureLoggerTo(t *testing.T) {
	defer ConfigureLogger(false, false)

	var buf bytes.Buffer
	ConfigureLoggerTo(&buf, false, true)
	log.Debug().Msg("hidden")
	log.Warn().Int("row", 3).Msg("bad cell")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"row":3`)
	assert.Contains(t, out, `"level":"warn"`)

	buf.Reset()
	ConfigureLoggerTo(&buf, true, true)
	log.Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}
