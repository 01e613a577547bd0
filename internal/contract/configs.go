package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/geotrend/schema"
	"github.com/sirupsen/logrus"
)

// Default values for configuration.
const (
	DefaultLookbackYears = 5
	MaxLookbackYears     = 50
	DefaultPeriods       = 10
	MaxPeriods           = 100
	DefaultAlpha         = 0.3
	DefaultBeta          = 0.1
	DefaultPrecision     = 1
)

// DateFormat is the layout accepted for --asof.
const DateFormat = schema.AsOfLayout

// Config holds the runtime configuration for a command.
// This struct remains the "final, validated" config.
type Config struct {
	GeoIDs        []string
	AsOf          time.Time // UTC date, no time of day
	Year          int       // Reference year for migration analysis
	Metric        schema.MetricCode
	Periods       int
	Alpha         float64
	Beta          float64
	LookbackYears int
	Precision     int
	Output        schema.OutputMode
	OutputFile    string
	Width         int // Terminal width override (0 = auto-detect)

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	LogLevel logrus.Level
	LogFile  string

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	GeoIDs []string

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	Width          int    `mapstructure:"width"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Color          string `mapstructure:"color"`
	LogLevel       string `mapstructure:"log-level"`
	LogFile        string `mapstructure:"log-file"`
	AsOf           string `mapstructure:"asof"`
	LookbackYears  int    `mapstructure:"lookback-years"`

	// --- Fields from forecastCmd.Flags() ---
	Metric  string  `mapstructure:"metric"`
	Periods int     `mapstructure:"periods"`
	Alpha   float64 `mapstructure:"alpha"`
	Beta    float64 `mapstructure:"beta"`

	// --- Fields from migrationCmd.Flags() ---
	Year int `mapstructure:"year"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.GeoIDs != nil {
		clone.GeoIDs = make([]string, len(c.GeoIDs))
		copy(clone.GeoIDs, c.GeoIDs)
	}
	return &clone
}

// CloneWithAsOf creates a copy of the Config pinned to another as-of date.
func (c *Config) CloneWithAsOf(asOf time.Time) *Config {
	clone := c.Clone()
	clone.AsOf = TruncateToDate(asOf)
	return clone
}

// AsOfYear returns the calendar year of the as-of date.
func (c *Config) AsOfYear() int {
	return c.AsOf.Year()
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. now is the only wall clock reading used.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processAsOf(cfg, input, now); err != nil {
		return err
	}
	if err := processForecastOptions(cfg, input); err != nil {
		return err
	}
	return processGeoIDs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend := input.StoreBackend
	if backend == "" {
		backend = string(schema.SQLiteBackend)
	}
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(backend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// validateSimpleInputs processes and validates all non-date fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.LogFile = input.LogFile

	// Parse color flag
	color := input.Color
	if color == "" {
		color = "yes"
	}
	colors, err := ParseBoolString(color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Log level ---
	levelStr := input.LogLevel
	if levelStr == "" {
		levelStr = logrus.InfoLevel.String()
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid log level '%s': %w", input.LogLevel, err)
	}
	cfg.LogLevel = level

	// --- 2. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 0 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	output := input.Output
	if output == "" {
		output = string(schema.TextOut)
	}
	cfg.Output = schema.OutputMode(strings.ToLower(output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Lookback Validation ---
	lookback := input.LookbackYears
	if lookback == 0 {
		lookback = DefaultLookbackYears
	}
	if lookback < 1 || lookback > MaxLookbackYears {
		return fmt.Errorf("lookback-years must be between 1 and %d (received %d)", MaxLookbackYears, input.LookbackYears)
	}
	cfg.LookbackYears = lookback

	// --- 4. Backend Validation ---
	return validateBackendConfig(cfg, input)
}

// processAsOf parses the as-of date and the migration reference year.
func processAsOf(cfg *Config, input *ConfigRawInput, now time.Time) error {
	cfg.AsOf = TruncateToDate(now)
	if s := strings.TrimSpace(input.AsOf); s != "" {
		t, err := time.Parse(DateFormat, s)
		if err != nil {
			return fmt.Errorf("invalid asof date '%s'. Expected YYYY-MM-DD: %w", input.AsOf, err)
		}
		cfg.AsOf = t
	}

	cfg.Year = input.Year
	if cfg.Year == 0 {
		cfg.Year = cfg.AsOf.Year()
	}
	if cfg.Year < 1 {
		return fmt.Errorf("year must be positive (received %d)", input.Year)
	}
	return nil
}

// processForecastOptions validates the forecast horizon, smoothing parameters and metric.
func processForecastOptions(cfg *Config, input *ConfigRawInput) error {
	cfg.Periods = input.Periods
	if cfg.Periods == 0 {
		cfg.Periods = DefaultPeriods
	}
	if cfg.Periods < 1 || cfg.Periods > MaxPeriods {
		return fmt.Errorf("periods must be between 1 and %d (received %d)", MaxPeriods, input.Periods)
	}

	cfg.Alpha = input.Alpha
	cfg.Beta = input.Beta
	if cfg.Alpha < 0 || cfg.Alpha > 1 {
		return fmt.Errorf("alpha must be between 0 and 1 (received %v)", input.Alpha)
	}
	if cfg.Beta < 0 || cfg.Beta > 1 {
		return fmt.Errorf("beta must be between 0 and 1 (received %v)", input.Beta)
	}

	cfg.Metric = schema.MetricCode(strings.ToUpper(strings.TrimSpace(input.Metric)))
	if cfg.Metric == "" {
		cfg.Metric = schema.HHIncomeMedianMetric
	}
	if _, ok := schema.ValidMetricCodes[cfg.Metric]; !ok && !strings.HasPrefix(string(cfg.Metric), schema.EmploymentIndustryPrefix) {
		return fmt.Errorf("invalid metric '%s'. must be one of %s or an %s* industry code", input.Metric, strings.Join(metricCodeNames(), ", "), schema.EmploymentIndustryPrefix)
	}
	return nil
}

// processGeoIDs trims and de-duplicates positional geography ids, keeping their order.
func processGeoIDs(cfg *Config, input *ConfigRawInput) error {
	cfg.GeoIDs = nil
	seen := make(map[string]struct{}, len(input.GeoIDs))
	for _, id := range input.GeoIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return fmt.Errorf("geo id cannot be empty")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		cfg.GeoIDs = append(cfg.GeoIDs, id)
	}
	return nil
}

func metricCodeNames() []string {
	names := make([]string, 0, len(schema.SnapshotMetricCodes)+1)
	for _, code := range schema.SnapshotMetricCodes {
		names = append(names, string(code))
	}
	return append(names, string(schema.EmploymentTotalMetric))
}

// RevalidateForecast applies forecast overrides to an already validated config.
// Used by callers that do not go through flag parsing, like the MCP server.
func RevalidateForecast(cfg *Config, metric string, periods int, alpha, beta float64) error {
	return processForecastOptions(cfg, &ConfigRawInput{Metric: metric, Periods: periods, Alpha: alpha, Beta: beta})
}

// RevalidateAsOf applies an as-of date and migration year override.
// An empty asOf keeps the current date; a zero year follows the as-of year.
func RevalidateAsOf(cfg *Config, asOf string, year int) error {
	if strings.TrimSpace(asOf) != "" {
		t, err := ParseAsOf(asOf)
		if err != nil {
			return err
		}
		cfg.AsOf = t
		cfg.Year = t.Year()
	}
	if year < 0 {
		return fmt.Errorf("year must be positive (received %d)", year)
	}
	if year > 0 {
		cfg.Year = year
	}
	return nil
}

// RevalidateGeoIDs replaces the configured geographies.
func RevalidateGeoIDs(cfg *Config, geoIDs ...string) error {
	return processGeoIDs(cfg, &ConfigRawInput{GeoIDs: geoIDs})
}
