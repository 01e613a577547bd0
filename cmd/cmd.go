// Package cmd defines the command-line interface for geotrend.
package cmd

import (
	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(migrationCmd)
	rootCmd.AddCommand(cagrCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the snapshot subcommands to the parent snapshot command
	snapshotCmd.AddCommand(snapshotBuildCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotCompareCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeImportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("asof", "", "As-of date in YYYY-MM-DD (defaults to today)")
	rootCmd.PersistentFlags().Int("lookback-years", contract.DefaultLookbackYears, "Years of history read for each series")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "Optional file that receives a copy of the logs")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of forecastCmd to Viper
	forecastCmd.Flags().String("metric", string(schema.HHIncomeMedianMetric), "Metric code to forecast")
	forecastCmd.Flags().Int("periods", contract.DefaultPeriods, "Number of years to forecast")
	forecastCmd.Flags().Float64("alpha", contract.DefaultAlpha, "Level smoothing factor in [0,1]")
	forecastCmd.Flags().Float64("beta", contract.DefaultBeta, "Trend smoothing factor in [0,1]")
	if err := viper.BindPFlags(forecastCmd.Flags()); err != nil {
		contract.LogFatal("Error binding forecast flags", err)
	}

	// Bind all flags of migrationCmd to Viper
	migrationCmd.Flags().Int("year", 0, "Reference year (defaults to the as-of year)")
	if err := viper.BindPFlags(migrationCmd.Flags()); err != nil {
		contract.LogFatal("Error binding migration flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
