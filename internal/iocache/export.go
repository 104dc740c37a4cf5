package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/learnstat/internal/contract"
	"github.com/huangsam/learnstat/internal/parquet"
)

// ExecuteRunsExport writes the run history held by store to a pair of Parquet files
// named after outputFile, reporting progress on w.
func ExecuteRunsExport(w io.Writer, store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run tracking is disabled. Set --runs-backend to export run history")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total day points: %d\n", status.TableSizes[dayPointsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	dayPoints, err := store.GetAllDayPoints()
	if err != nil {
		return fmt.Errorf("failed to retrieve day points: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetDayPoints := parquet.ConvertDayPointRecords(dayPoints)

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	dayPointsFile := outputFile + ".day_points.parquet"
	if err := parquet.WriteDayPointsParquet(parquetDayPoints, dayPointsFile); err != nil {
		return fmt.Errorf("failed to write day points: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d day points to: %s\n", len(parquetDayPoints), dayPointsFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with:")
	_, _ = fmt.Fprintln(w, "  - Apache Arrow")
	_, _ = fmt.Fprintln(w, "  - Pandas (via pyarrow)")
	_, _ = fmt.Fprintln(w, "  - DuckDB")

	return nil
}
