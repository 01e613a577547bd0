package cmd

import (
	"github.com/huangsam/geotrend/core"
	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/internal/outwriter"
	"github.com/spf13/cobra"
)

// runExecutor runs a store-backed command and exits on failure.
func runExecutor(name string, executeFunc core.ExecutorFunc) {
	if err := executeFunc(rootCtx, cfg, storeManager, outwriter.NewOutWriter()); err != nil {
		contract.LogFatal("Cannot run "+name, err)
	}
}

// snapshotCmd groups snapshot operations.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Build, show and compare geography snapshots.",
	Long: `Manage per-geography snapshots keyed by geography and as-of date.

A snapshot folds the latest observations of a geography into one record:
- Income per capita, household income median and median age
- Net migration of the 18-34 cohort with its rolling average, trend and confidence
- Five-year employment growth with the fastest growing and declining industries
- A 10-year projection of population, household income and median age

Available subcommands:
  snapshot build   - Compute and store snapshots
  snapshot show    - Print stored snapshots
  snapshot compare - Compare stored snapshots against a baseline`,
}

// snapshotBuildCmd computes and stores snapshots.
var snapshotBuildCmd = &cobra.Command{
	Use:   "build [geo-id...]",
	Short: "Compute and store snapshots for geographies.",
	Long: `Compute snapshots as of the configured date and upsert them into the store.

Geographies are processed one at a time. A geography that cannot be read is
reported and skipped; the others are still stored. Rebuilding the same date
replaces the stored records.

Examples:
  # Build every geography in the store as of today
  geotrend snapshot build

  # Build two counties as of the end of 2024
  geotrend snapshot build 06075 48453 --asof 2024-12-31`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("snapshot build", core.ExecuteSnapshotBuild)
	},
}

// snapshotShowCmd prints stored snapshots.
var snapshotShowCmd = &cobra.Command{
	Use:   "show [geo-id...]",
	Short: "Print stored snapshots.",
	Long: `Print the stored snapshots of the given geographies, or every snapshot at the
as-of date when none are given.

Examples:
  geotrend snapshot show 06075 --asof 2024-12-31
  geotrend snapshot show --asof 2024-12-31 --output csv --output-file snapshots.csv`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("snapshot show", core.ExecuteSnapshotShow)
	},
}

// snapshotCompareCmd compares stored snapshots.
var snapshotCompareCmd = &cobra.Command{
	Use:   "compare <baseline-geo-id> <geo-id>...",
	Short: "Compare stored snapshots against a baseline geography.",
	Long: `Compare the stored snapshots of several geographies against the first one.

Deltas are target minus baseline. A delta is left empty when either side lacks
the metric.

Examples:
  geotrend snapshot compare 06075 48453 36061 --asof 2024-12-31`,
	Args:    cobra.MinimumNArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("snapshot compare", core.ExecuteSnapshotCompare)
	},
}
