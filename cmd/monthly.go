package cmd

import (
	"github.com/huangsam/trendbox/core"
	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/internal/runstore"
	"github.com/spf13/cobra"
)

// monthlyCmd renders the trailing-months chart.
var monthlyCmd = &cobra.Command{
	Use:   "monthly [input]",
	Short: "Chart the months before a reference time",
	Long: `Aggregate rows into weeks, keep the weeks that fall within the months before
the reference time and roll them up into calendar months.

The reference time defaults to now. Pin it with --now to get a reproducible chart.

Examples:
  # Trailing twelve months
  trendbox monthly sales.csv

  # Two years as of a fixed date
  trendbox monthly sales.csv --months 24 --now 2024-06-30

  # Relative reference time
  trendbox monthly sales.xlsx --sheet Revenue --now "1 month ago"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTwelveMonth(rootCtx, cfg, runstore.Manager); err != nil {
			contract.LogFatal("Cannot run monthly summary", err)
		}
	},
}
