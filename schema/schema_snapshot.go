package schema

import "time"

// AsOfLayout is the date layout used for snapshot as-of keys.
const AsOfLayout = "2006-01-02"

// IndustryTrend is the growth of employment in a single industry.
type IndustryTrend struct {
	Code string  `json:"code"`
	Name string  `json:"name"`
	CAGR float64 `json:"cagr"`
}

// IndustryTrends is the employment summary supplied to the snapshot aggregator.
type IndustryTrends struct {
	EmploymentGrowth5y *float64        `json:"employment_growth_5y"`
	TopGrowing         []IndustryTrend `json:"top_growing"`
	TopDeclining       []IndustryTrend `json:"top_declining"`
}

// PercentileIndex holds the banded household income index.
type PercentileIndex struct {
	HHIncomeIdx float64 `json:"hh_income_idx"`
}

// ProjectionIndices is the 10-year projection folded into a snapshot.
// Indices are ratios of the final forecast to the latest observed value.
type ProjectionIndices struct {
	PopulationIdx float64         `json:"population_idx"`
	HHIncomeIdx   float64         `json:"hh_income_idx"`
	AgeMedian     *float64        `json:"age_median"`
	P25           PercentileIndex `json:"p25"`
	P75           PercentileIndex `json:"p75"`
}

// NeutralProjectionIndices returns the placeholder used when projections cannot be computed.
func NeutralProjectionIndices() ProjectionIndices {
	return ProjectionIndices{
		PopulationIdx: 1.0,
		HHIncomeIdx:   1.0,
		AgeMedian:     nil,
		P25:           PercentileIndex{HHIncomeIdx: 1.0},
		P75:           PercentileIndex{HHIncomeIdx: 1.0},
	}
}

// SnapshotMetrics is the denormalized summary of one geography at one as-of date.
// The pair (GeoID, AsOf) is the unique key.
type SnapshotMetrics struct {
	GeoID                  string            `json:"geo_id"`
	AsOf                   time.Time         `json:"asof"`
	IncomePerCapita        *float64          `json:"income_per_capita"`
	HHIncomeMedian         *float64          `json:"hh_income_median"`
	AgeMedian              *float64          `json:"age_median"`
	NetMigration           float64           `json:"net_migration"`
	MigrationRollingAvg    float64           `json:"migration_rolling_avg"`
	MigrationTrend         MigrationTrend    `json:"migration_trend"`
	MigrationConfidence    Confidence        `json:"migration_confidence"`
	EmploymentGrowth5y     *float64          `json:"employment_growth_5y"`
	TopGrowingIndustries   []IndustryTrend   `json:"top_growing_industries"`
	TopDecliningIndustries []IndustryTrend   `json:"top_declining_industries"`
	Projection10y          ProjectionIndices `json:"projection_10y"`
}

// AsOfKey returns the as-of date formatted as a store key.
func (s SnapshotMetrics) AsOfKey() string {
	return s.AsOf.Format(AsOfLayout)
}

// GeoFailure records a geography that could not be snapshotted in a batch.
type GeoFailure struct {
	GeoID string `json:"geo_id"`
	Error string `json:"error"`
}

// BatchReport summarizes a snapshot batch run.
type BatchReport struct {
	AsOf      time.Time         `json:"asof"`
	Snapshots []SnapshotMetrics `json:"snapshots"`
	Failures  []GeoFailure      `json:"failures"`
}
