package algo

import (
	"math"

	"github.com/huangsam/geotrend/schema"
)

// Fixed thresholds of the migration heuristic, in the units of the metric.
const (
	migrationWindow          = 3  // years in a rolling average window
	migrationTrendLag        = 3  // years between the compared windows
	migrationTrendThreshold  = 10 // change in rolling average that counts as a trend
	migrationRecentSpan      = 4  // points within year-4..year back the confidence label
	migrationHighDiff        = 20
	significantMigrationRate = 50
	moderateMigrationRate    = 10
)

// CalculateRollingAverage returns the mean net migration over [year-2, year].
// Input order does not matter. It returns 0 when no points fall in the window.
func CalculateRollingAverage(data []schema.MigrationPoint, year int) float64 {
	var sum float64
	var count int
	for _, p := range data {
		if p.Year > year-migrationWindow && p.Year <= year {
			sum += p.NetMigration
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// AnalyzeMigrationSignal derives the migration signal for the reference year.
func AnalyzeMigrationSignal(data []schema.MigrationPoint, year int) schema.MigrationSignal {
	var current float64
	recent := 0
	for _, p := range data {
		if p.Year == year {
			current = p.NetMigration
		}
		if p.Year >= year-migrationRecentSpan {
			recent++
		}
	}

	rolling := CalculateRollingAverage(data, year)
	earlier := CalculateRollingAverage(data, year-migrationTrendLag)
	diff := rolling - earlier

	trend := schema.StableTrend
	switch {
	case diff > migrationTrendThreshold:
		trend = schema.IncreasingTrend
	case diff < -migrationTrendThreshold:
		trend = schema.DecreasingTrend
	}

	confidence := schema.LowConfidence
	switch {
	case recent >= migrationRecentSpan && math.Abs(diff) > migrationHighDiff:
		confidence = schema.HighConfidence
	case recent >= 3:
		confidence = schema.MediumConfidence
	}

	return schema.MigrationSignal{
		NetMigration:   current,
		RollingAverage: rolling,
		Trend:          trend,
		Confidence:     confidence,
	}
}

// GenerateMigrationDescription renders a migration signal as a short sentence.
func GenerateMigrationDescription(signal schema.MigrationSignal) string {
	var description string
	switch avg := signal.RollingAverage; {
	case avg > significantMigrationRate:
		description = "Significant influx of young adults"
	case avg > moderateMigrationRate:
		description = "Moderate influx of young adults"
	case avg < -significantMigrationRate:
		description = "Significant outflow of young adults"
	case avg < -moderateMigrationRate:
		description = "Moderate outflow of young adults"
	default:
		description = "Stable population"
	}

	switch signal.Trend {
	case schema.IncreasingTrend:
		description += " (trending upward)"
	case schema.DecreasingTrend:
		description += " (trending downward)"
	}

	if signal.Confidence == schema.LowConfidence {
		description += " (limited data)"
	}
	return description
}
