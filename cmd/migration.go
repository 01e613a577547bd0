package cmd

import (
	"github.com/huangsam/geotrend/core"
	"github.com/spf13/cobra"
)

// migrationCmd analyzes the migration signal of one geography.
var migrationCmd = &cobra.Command{
	Use:   "migration <geo-id>",
	Short: "Analyze the net migration signal of young adults.",
	Long: `Analyze net migration of the 18-34 age cohort at a reference year.

Shows the raw value at the year, the 3-year rolling average, whether it is
increasing or decreasing against the window three years earlier, and how much
data backs the signal.

Examples:
  geotrend migration 06075 --year 2023`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("migration analysis", core.ExecuteMigration)
	},
}
