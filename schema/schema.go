// Package schema has models, constants and small helpers shared by every part of geotrend.
package schema

// TimeSeriesPoint is a single annual observation of one metric for one geography.
// Series are ordered by ascending Period with no duplicate periods.
type TimeSeriesPoint struct {
	Period int     `json:"period"` // Calendar year of the observation
	Value  float64 `json:"value"`
}

// MigrationPoint is one year of net migration for the 18-34 age cohort.
type MigrationPoint struct {
	Year         int     `json:"year"`
	NetMigration float64 `json:"net_migration_18_34"`
}

// CAGRResult carries a compound annual growth rate with the values it was computed from.
type CAGRResult struct {
	CAGR       float64 `json:"cagr"`
	Years      int     `json:"years"`
	StartValue float64 `json:"start_value"`
	EndValue   float64 `json:"end_value"`
}

// MigrationSignal is the derived view of a short net migration series.
type MigrationSignal struct {
	NetMigration   float64        `json:"net_migration"`   // Raw value at the reference year (0 if absent)
	RollingAverage float64        `json:"rolling_average"` // 3-year trailing mean ending at the reference year
	Trend          MigrationTrend `json:"trend"`
	Confidence     Confidence     `json:"confidence"`
}

// ConfidenceBands holds the lower and upper band for each forecast period.
type ConfidenceBands struct {
	Lower []float64 `json:"lower"`
	Upper []float64 `json:"upper"`
}

// ProjectionResult is the output of the exponential smoothing forecaster.
type ProjectionResult struct {
	Forecast        []float64       `json:"forecast"`
	ConfidenceBands ConfidenceBands `json:"confidence_bands"`
	MAPE            float64         `json:"mape"`   // Mean absolute percentage error over the fitted history
	Fitted          []float64       `json:"fitted"` // Smoothed level for each input point
}
