// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

var _ contract.OutputWriter = &OutWriter{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSummary prints a rendered summary using the configured output format.
func (ow *OutWriter) WriteSummary(summary schema.Summary, cfg *contract.Config, duration time.Duration) error {
	return PrintSummary(summary, cfg, duration)
}

// WriteFields prints the field and variant definitions using the configured output format.
func (ow *OutWriter) WriteFields(cfg *contract.Config) error {
	return PrintFieldDefinitions(cfg)
}

// Bar widths are clamped to this range.
const (
	minBarWidth = 10
	maxBarWidth = 40
)

// terminalWidth returns the width override, the detected terminal width, or 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return 80 // CI and pipes
	}
	return detected
}

// GetMaxBarWidth calculates how many cells the trend bar may use based on
// terminal width and the columns enabled in the series table.
func GetMaxBarWidth(cfg *contract.Config) int {
	baseWidth := 30 // Bucket + Value with borders/padding
	if cfg.Style.ShowTargets {
		baseWidth += 15
	}
	if cfg.Style.ShowHistorical {
		baseWidth += 15
	}
	baseWidth += 10 // separators

	available := terminalWidth(cfg) - baseWidth
	if available < minBarWidth {
		return minBarWidth
	}
	if available > maxBarWidth {
		return maxBarWidth
	}
	return available
}
