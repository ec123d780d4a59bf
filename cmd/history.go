package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/internal/runstore"
	"github.com/huangsam/trendbox/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyCmd is the parent command for run history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the record of past summary runs",
	Long: `Inspect, export and maintain the run history database.

When --history-backend is set, every weekly or monthly run stores its
configuration, windowed series and growth metrics. Nothing recorded is read
back into a computation.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// historyStatusCmd shows run history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show the backend, the number of recorded runs, the first and last run
timestamps and the size of each history table.

Examples:
  trendbox history status --history-backend sqlite`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := runstore.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		runstore.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyClearCmd removes all recorded runs.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	Long: `Delete every recorded run and its points.

For sqlite the database file is removed. For mysql and postgresql the
history tables are dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  trendbox history export --history-backend sqlite --output-file backup
  trendbox history clear --history-backend sqlite`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := contract.GetHistoryDBFilePath()
		if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect != "" {
			dbFilePath = cfg.HistoryDBConnect
		}
		if err := runstore.ClearHistory(cfg.HistoryBackend, dbFilePath, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// historyExportCmd exports run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs to Parquet for BI tools and analytics",
	Long: `Export all recorded runs to Parquet files.

Writes two datasets next to --output-file:
- <output-file>.runs.parquet with one row per run
- <output-file>.run_points.parquet with one row per windowed bucket

Requires: --output-file parameter

Examples:
  trendbox history export --history-backend sqlite --output-file trendbox
  duckdb -c "SELECT variant, week_over_week FROM read_parquet('trendbox.runs.parquet')"`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the run history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the run history database.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  trendbox history migrate --history-backend postgresql --history-db-connect "host=localhost dbname=trendbox"

  # Rollback everything
  trendbox history migrate --history-backend sqlite --target-version 0`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := runstore.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
