package cmd

import (
	"github.com/huangsam/trendbox/core"
	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/internal/runstore"
	"github.com/spf13/cobra"
)

// weeklyCmd renders the trailing-weeks chart.
var weeklyCmd = &cobra.Command{
	Use:   "weekly [input]",
	Short: "Chart the trailing weeks of a dated series",
	Long: `Aggregate rows into weeks starting on Sunday and keep the most recent buckets.

Reports:
- One bucket per week with value, target and last-year value
- Week over week and year over year growth
- Month, quarter and year to date growth
- The last value with its growth rates as a box score

Reads stdin when no input path is given.

Examples:
  # Last six weeks of a CSV export
  trendbox weekly sales.csv

  # Last twelve weeks by column name
  trendbox weekly sales.csv --weeks 12 --date-field day --value-field revenue

  # From a JSON pipe
  cat sales.json | trendbox weekly --format json --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSixWeek(rootCtx, cfg, runstore.Manager); err != nil {
			contract.LogFatal("Cannot run weekly summary", err)
		}
	},
}
