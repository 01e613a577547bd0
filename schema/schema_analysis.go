package schema

// ForecastResult is a forecast of one metric for one geography.
type ForecastResult struct {
	GeoID         string            `json:"geo_id"`
	Metric        MetricCode        `json:"metric"`
	MetricName    string            `json:"metric_name,omitempty"`
	History       []TimeSeriesPoint `json:"history"`
	ForecastYears []int             `json:"forecast_years"`
	Projection    ProjectionResult  `json:"projection"`
	CAGR          CAGRResult        `json:"history_cagr"`
}

// MigrationResult is a migration signal of one geography with the history it came from.
type MigrationResult struct {
	GeoID       string           `json:"geo_id"`
	Year        int              `json:"year"`
	Signal      MigrationSignal  `json:"signal"`
	Description string           `json:"description"`
	History     []MigrationPoint `json:"history"`
}

// CAGRSummary is a growth rate with its classification and display form.
type CAGRSummary struct {
	CAGRResult
	Trend     GrowthTrend `json:"trend"`
	Formatted string      `json:"formatted"`
}
