package iostore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/internal/parquet"
)

// ExecuteExport exports observations and snapshots to Parquet files named
// after outputFile.
func ExecuteExport(ctx context.Context, mgr contract.StoreManager, outputFile string, out io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	snapshotStore := mgr.GetSnapshotStore()
	observationStore := mgr.GetObservationStore()

	status, err := snapshotStore.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TableSizes[observationsTable] == 0 && status.TotalSnapshots == 0 {
		return errors.New("no store data found to export")
	}

	_, _ = fmt.Fprintf(out, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(out, "Total observations: %d\n", status.TableSizes[observationsTable])
	_, _ = fmt.Fprintf(out, "Total snapshots: %d\n", status.TotalSnapshots)

	observations, err := observationStore.GetAllObservations(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve observations: %w", err)
	}
	snapshots, err := snapshotStore.GetAllSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve snapshots: %w", err)
	}

	observationsFile := outputFile + ".observations.parquet"
	parquetObservations := parquet.ConvertObservationRecords(observations)
	if err := parquet.WriteObservationsParquet(parquetObservations, observationsFile); err != nil {
		return fmt.Errorf("failed to write observations: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d observations to: %s\n", len(parquetObservations), observationsFile)

	snapshotsFile := outputFile + ".snapshots.parquet"
	parquetSnapshots := parquet.ConvertSnapshots(snapshots)
	if err := parquet.WriteSnapshotsParquet(parquetSnapshots, snapshotsFile); err != nil {
		return fmt.Errorf("failed to write snapshots: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d snapshots to: %s\n", len(parquetSnapshots), snapshotsFile)

	_, _ = fmt.Fprintln(out, "\nExport complete! The Parquet files can be used with:")
	_, _ = fmt.Fprintln(out, "  - Apache Spark")
	_, _ = fmt.Fprintln(out, "  - Pandas (via pyarrow)")
	_, _ = fmt.Fprintln(out, "  - DuckDB")

	return nil
}
