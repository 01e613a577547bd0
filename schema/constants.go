package schema

// Custom string types for type safety.
type (
	// GrowthTrend classifies a growth rate.
	GrowthTrend string

	// MigrationTrend classifies the direction of a migration signal.
	MigrationTrend string

	// Confidence labels how much data backs a migration signal.
	Confidence string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the store.
	DatabaseBackend string

	// MetricCode identifies a time series in the observation store.
	MetricCode string
)

// All growth trends supported.
const (
	GrowingTrend   GrowthTrend = "growing"
	DecliningTrend GrowthTrend = "declining"
	StableGrowth   GrowthTrend = "stable"
)

// All migration trends supported.
const (
	IncreasingTrend MigrationTrend = "increasing"
	DecreasingTrend MigrationTrend = "decreasing"
	StableTrend     MigrationTrend = "stable"
)

// All confidence labels supported.
const (
	HighConfidence   Confidence = "high"
	MediumConfidence Confidence = "medium"
	LowConfidence    Confidence = "low"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Metric codes read by the snapshot aggregator.
const (
	HHIncomeMedianMetric  MetricCode = "HH_INCOME_MEDIAN"
	IncomePerCapitaMetric MetricCode = "INCOME_PER_CAPITA"
	AgeMedianMetric       MetricCode = "AGE_MEDIAN"
	PopulationMetric      MetricCode = "POP_TOTAL"
	NetMigrationMetric    MetricCode = "NET_MIGRATION_18_34"
	EmploymentTotalMetric MetricCode = "EMP_TOTAL"
)

// EmploymentIndustryPrefix prefixes per-industry employment metric codes (e.g. EMP_62).
const EmploymentIndustryPrefix = "EMP_"

// SnapshotMetricCodes lists the series fetched for every snapshot.
var SnapshotMetricCodes = []MetricCode{
	HHIncomeMedianMetric,
	IncomePerCapitaMetric,
	AgeMedianMetric,
	PopulationMetric,
	NetMigrationMetric,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidMetricCodes lists the fixed metric codes. Employment industry codes are open-ended.
var ValidMetricCodes = map[MetricCode]struct{}{
	HHIncomeMedianMetric:  {},
	IncomePerCapitaMetric: {},
	AgeMedianMetric:       {},
	PopulationMetric:      {},
	NetMigrationMetric:    {},
	EmploymentTotalMetric: {},
}
