package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"gopkg.in/guregu/null.v3"
)

// Color variables for console output.
var (
	GainColor    = color.New(color.FgGreen, color.Bold) // GainColor marks a positive growth rate.
	LossColor    = color.New(color.FgRed, color.Bold)   // LossColor marks a negative growth rate.
	NeutralColor = color.New(color.FgYellow)            // NeutralColor marks a flat growth rate.
	MissingColor = color.New(color.FgHiBlack)           // MissingColor marks an absent metric.
)

// GetColorPercent colors an already formatted growth cell by the sign of v.
func GetColorPercent(v null.Float, text string) string {
	switch {
	case !v.Valid:
		return MissingColor.Sprint(text)
	case v.Float64 > 0:
		return GainColor.Sprint(text)
	case v.Float64 < 0:
		return LossColor.Sprint(text)
	default:
		return NeutralColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	log.Fatal().Err(err).Msg(msg)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	log.Warn().Err(err).Msg(msg)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".trendbox_history.db"
	}
	return filepath.Join(homeDir, ".trendbox_history.db")
}

// TruncateLabel truncates a label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
