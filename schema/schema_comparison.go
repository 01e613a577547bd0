package schema

import "time"

// ComparisonDetail holds the deltas of one geography against the baseline geography.
// Deltas are target minus baseline and are nil when either side lacks the metric.
type ComparisonDetail struct {
	GeoID                string   `json:"geo_id"`
	DeltaHHIncome        *float64 `json:"delta_hh_income"`
	DeltaIncomePerCapita *float64 `json:"delta_income_per_capita"`
	DeltaAgeMedian       *float64 `json:"delta_age_median"`
	DeltaNetMigration    float64  `json:"delta_net_migration"`
	DeltaHHIncomeIdx     float64  `json:"delta_hh_income_idx"`
	DeltaPopulationIdx   float64  `json:"delta_population_idx"`
	SameTopGrowing       bool     `json:"same_top_growing"` // Same leading industries as the baseline

	Snapshot SnapshotMetrics `json:"snapshot"`
}

// ComparisonResult holds the baseline snapshot and the per-geography deltas.
type ComparisonResult struct {
	AsOf     time.Time          `json:"asof"`
	Baseline SnapshotMetrics    `json:"baseline"`
	Details  []ComparisonDetail `json:"details"`
}
