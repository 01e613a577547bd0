package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/internal/iostore"
	"github.com/huangsam/geotrend/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeConfig loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// storeSetup loads store configuration and opens the store.
func storeSetup() error {
	if err := storeConfig(); err != nil {
		return err
	}
	if err := iostore.InitStores(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeConfigWrapper is the PreRunE of store commands that manage the database themselves.
func storeConfigWrapper(_ *cobra.Command, _ []string) error {
	return storeConfig()
}

// storeCmd focused on store management.
//
// Note: Store subcommands use minimal initialization instead of the full
// sharedSetup used by analysis commands. They skip as-of and forecast validation.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the observation and snapshot store",
	Long: `Manage the database that holds observations and computed snapshots.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store statistics and connection info
  clear   - Remove all stored data
  migrate - Run database schema migrations
  export  - Export observations and snapshots to Parquet
  import  - Load observations from CSV

Examples:
  # Load observations then check the store
  geotrend store import observations.csv
  geotrend store status`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the store.

Displays:
- Backend type and connection status
- Number of geographies with observations and stored snapshots
- Newest and oldest snapshot dates
- Row counts per table and database size

Examples:
  geotrend store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetSnapshotStore().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iostore.PrintStoreStatus(os.Stdout, status)
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all observations and snapshots",
	Long: `Delete all stored observations and snapshots from the configured backend.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the store tables

Examples:
  # Export before clearing
  geotrend store export --output-file backup
  geotrend store clear

  # Clear MySQL store (set connection string via env variable)
  GEOTREND_STORE_BACKEND=mysql GEOTREND_STORE_DB_CONNECT="..." geotrend store clear`,
	PreRunE: storeConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := iostore.GetDBFilePath()
		if cfg.StoreBackend == schema.SQLiteBackend && cfg.StoreDBConnect != "" {
			dbFilePath = cfg.StoreDBConnect
		}
		if err := iostore.ClearStore(cfg.StoreBackend, dbFilePath, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeMigrateCmd runs schema migrations.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  geotrend store migrate

  # Migrate to specific version
  geotrend store migrate --target-version 2

  # Rollback to initial state
  geotrend store migrate --target-version 0`,
	PreRunE: storeConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iostore.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// storeExportCmd exports the store to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export observations and snapshots to Parquet",
	Long: `Export all stored data to Parquet format for use with analytics tools.

Writes two files next to --output-file:
- <output-file>.observations.parquet
- <output-file>.snapshots.parquet

Examples:
  # Export for analysis in pandas/DuckDB
  geotrend store export --output-file geotrend-data`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ExecuteExport(rootCtx, storeManager, cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export store", err)
		}
	},
}

// storeImportCmd loads observations from CSV.
var storeImportCmd = &cobra.Command{
	Use:   "import [file.csv]",
	Short: "Load observations from a CSV file",
	Long: `Insert or replace observations from CSV rows of the form
geo_id,metric_code,period,value[,metric_name]

A header row is optional. Reads standard input when no file or "-" is given.
The whole file is rejected when any row is malformed.

Examples:
  geotrend store import observations.csv
  cat observations.csv | geotrend store import -`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		var r io.Reader = os.Stdin
		if len(args) == 1 && args[0] != "-" {
			file, err := os.Open(args[0])
			if err != nil {
				contract.LogFatal("Failed to open import file", err)
			}
			defer func() { _ = file.Close() }()
			r = file
		}

		count, err := iostore.ImportObservationsCSV(rootCtx, storeManager.GetObservationStore(), r)
		if err != nil {
			contract.LogFatal("Failed to import observations", err)
		}
		fmt.Printf("Imported %d observations.\n", count)
	},
}
