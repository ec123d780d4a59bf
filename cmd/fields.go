package cmd

import (
	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/internal/outwriter"
	"github.com/spf13/cobra"
)

// fieldsCmd prints the resolved field mapping and the metric definitions.
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Show the field mapping, chart variants and growth metrics",
	Long: `Describe how input columns map onto the series and what each metric means.

Useful for:
- Checking which columns a config file selects
- Looking up how MTD, QTD and YTD are computed

Examples:
  trendbox fields
  trendbox fields --date-field day --value-field revenue --output json`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := outwriter.NewOutWriter().WriteFields(cfg); err != nil {
			contract.LogFatal("Cannot print field definitions", err)
		}
	},
}
