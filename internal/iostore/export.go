package iostore

import (
	"errors"
	"fmt"

	"github.com/okrpulse/okrpulse/internal/parquet"
)

// ExecuteHistoryExport performs the actual export of report history to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the report history store
	store := Manager.GetReportStore()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no report history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total report runs: %d\n", status.TotalRuns)
	fmt.Printf("Total user result records: %d\n", status.TableSizes[userResultsTable])

	// Retrieve all report runs
	reportRuns, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve report runs: %w", err)
	}

	// Retrieve all user results
	userResults, err := store.GetAllUserResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve user results: %w", err)
	}

	// Convert to Parquet format
	parquetReportRuns := parquet.ConvertReportRunRecords(reportRuns)
	parquetUserResults := parquet.ConvertUserResultRecords(userResults)

	// Write report runs to Parquet
	reportRunsFile := outputFile + ".report_runs.parquet"
	if err := parquet.WriteReportRunsParquet(parquetReportRuns, reportRunsFile); err != nil {
		return fmt.Errorf("failed to write report runs: %w", err)
	}
	fmt.Printf("Exported %d report runs to: %s\n", len(parquetReportRuns), reportRunsFile)

	// Write user results to Parquet
	userResultsFile := outputFile + ".user_results.parquet"
	if err := parquet.WriteUserResultsParquet(parquetUserResults, userResultsFile); err != nil {
		return fmt.Errorf("failed to write user results: %w", err)
	}
	fmt.Printf("Exported %d user result records to: %s\n", len(parquetUserResults), userResultsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
