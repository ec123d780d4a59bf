package runstore

import (
	"errors"
	"fmt"

	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/internal/parquet"
)

// ExecuteHistoryExport exports the global store's history to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("run history is not initialized")
	}
	return ExportHistory(store, outputFile)
}

// ExportHistory writes every run and run point in store to Parquet files
// named after outputFile.
func ExportHistory(store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total points: %d\n", status.TotalPoints)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	points, err := store.GetAllRunPoints()
	if err != nil {
		return fmt.Errorf("failed to retrieve run points: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	parquetRuns := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	pointsFile := outputFile + ".run_points.parquet"
	parquetPoints := parquet.ConvertRunPointRecords(points)
	if err := parquet.WriteRunPointsParquet(parquetPoints, pointsFile); err != nil {
		return fmt.Errorf("failed to write run points: %w", err)
	}
	fmt.Printf("Exported %d run points to: %s\n", len(parquetPoints), pointsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
