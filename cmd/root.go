package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/internal/iostore"
	"github.com/huangsam/geotrend/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profilePrefix is set when CPU and memory profiles should be written.
var profilePrefix string

// storeManager is the global store manager instance.
var storeManager contract.StoreManager

// startProfiling starts CPU profiling if enabled.
func startProfiling() error {
	if profilePrefix == "" {
		return nil
	}

	cpuFile, err := os.Create(profilePrefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", profilePrefix, profilePrefix)
	return err
}

// stopProfiling stops profiling and writes memory profile.
func stopProfiling() error {
	if profilePrefix == "" {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profilePrefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}
	return nil
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "geotrend",
	Short:              "Build demographic and economic snapshots of geographies.",
	Long:               `Geotrend turns annual observations into per-geography snapshots with growth rates, migration signals and 10-year projections.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("GEOTREND")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("lookback-years", contract.DefaultLookbackYears)
	viper.SetDefault("periods", contract.DefaultPeriods)
	viper.SetDefault("alpha", contract.DefaultAlpha)
	viper.SetDefault("beta", contract.DefaultBeta)
	viper.SetDefault("metric", schema.HHIncomeMedianMetric)
	viper.SetDefault("store-backend", schema.SQLiteBackend)
	viper.SetDefault("store-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", "info")
}

// setConfigFile points viper at --config or the default .geotrend.yaml locations.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".geotrend") // Name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// loadConfigFile reads the config file if present.
func loadConfigFile() error {
	setConfigFile()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// configSetup unmarshals config and runs validation without touching the store.
func configSetup(args []string) error {
	profilePrefix = viper.GetString("profile")
	if err := startProfiling(); err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}

	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	input.GeoIDs = args

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input, time.Now()); err != nil {
		return err
	}

	return contract.InitLogger(cfg.LogLevel, cfg.LogFile)
}

// sharedSetup validates config and opens the configured store.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	if err := configSetup(args); err != nil {
		return err
	}
	if err := iostore.InitStores(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// configSetupWrapper is the PreRunE of commands that need no store.
func configSetupWrapper(_ *cobra.Command, _ []string) error {
	return configSetup(nil)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetStoreManager sets the global store manager.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}
