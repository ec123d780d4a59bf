// Package cmd defines the command-line interface for trendbox.
package cmd

import (
	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(weeklyCmd)
	rootCmd.AddCommand(monthlyCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	pf := rootCmd.PersistentFlags()
	pf.String("format", "", "Input format: csv or json or xlsx (default: from the file extension)")
	pf.String("sheet", "", "Worksheet to read from an xlsx input (default: the first sheet)")
	pf.Bool("no-header", false, "Treat the first csv/xlsx row as data; fields must then be positional (#N)")
	pf.String("date-field", "#1", "Field holding the date, by name or as #N")
	pf.String("value-field", "#2", "Field holding the measured value, by name or as #N")
	pf.String("target-field", "#3", "Field holding the target value (empty disables the series)")
	pf.String("historical-field", "#4", "Field holding the same-period-last-year value (empty disables the series)")
	pf.Int("weeks", contract.DefaultTrailingWeeks, "Number of trailing weekly buckets for the weekly chart")
	pf.Int("months", contract.DefaultMonthCount, "Number of months before the reference time for the monthly chart")
	pf.String("now", "", "Reference time in ISO8601 or time ago (default: current time)")
	pf.String("timezone", contract.DefaultTimezone, "IANA time zone dates are bucketed in")
	pf.String("show-targets", "", "Include the target series (yes/no/true/false/1/0)")
	pf.String("show-historical", "", "Include the historical series (yes/no/true/false/1/0)")
	pf.String("show-growth-rates", "", "Print the growth rate row (yes/no/true/false/1/0)")
	pf.String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	pf.String("output-file", "", "Optional path to write output to")
	pf.Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	pf.String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	pf.Int("width", 0, "Terminal width override (0 = auto-detect)")
	pf.BoolP("verbose", "v", false, "Log debug messages including row diagnostics")
	pf.Bool("log-json", false, "Emit log lines as JSON instead of console text")
	pf.Int("graph-number", schema.DefaultGraphNumber, "Chart identifier carried in structured output")
	pf.String("line-color", "", "Hex color of the value series (default: "+schema.DefaultLineColor+")")
	pf.String("historical-color", "", "Hex color of the historical series (default: "+schema.DefaultHistoricalColor+")")
	pf.String("target-color", "", "Hex color of the target series (default: "+schema.DefaultTargetColor+")")
	pf.String("history-backend", string(schema.NoneBackend), "Run history backend: sqlite or mysql or postgresql or none")
	pf.String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname?parseTime=true)")
	pf.String("profile", "", "Enable profiling and write profiles to files with this prefix")
	pf.String("config", "", "Path to config file")
	if err := viper.BindPFlags(pf); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultServeAddr, "Address the HTTP server listens on")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
