// Package parquet provides data structures and functions for exporting geotrend
// observations and snapshots to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/geotrend/schema"
	"github.com/parquet-go/parquet-go"
)

// Observation represents one annual observation of a metric for a geography.
// This struct maps to the geotrend_observations database table.
type Observation struct {
	GeoID      string  `parquet:"geo_id,snappy"`
	MetricCode string  `parquet:"metric_code,snappy,dict"`
	MetricName string  `parquet:"metric_name,snappy,dict"`
	Period     int32   `parquet:"period,snappy"`
	Value      float64 `parquet:"value,snappy"`
}

// Snapshot represents the metrics of one geography at one as-of date.
// This struct maps to the geotrend_snapshots database table, with the
// projection flattened into columns and industries encoded as "CODE:cagr" lists.
type Snapshot struct {
	// GeoID and AsOf form the key of the snapshot
	GeoID string `parquet:"geo_id,snappy"`
	AsOf  string `parquet:"as_of,snappy,dict"`

	IncomePerCapita *float64 `parquet:"income_per_capita,optional,snappy"`
	HHIncomeMedian  *float64 `parquet:"hh_income_median,optional,snappy"`
	AgeMedian       *float64 `parquet:"age_median,optional,snappy"`

	NetMigration        float64 `parquet:"net_migration,snappy"`
	MigrationRollingAvg float64 `parquet:"migration_rolling_avg,snappy"`
	MigrationTrend      string  `parquet:"migration_trend,snappy,dict"`
	MigrationConfidence string  `parquet:"migration_confidence,snappy,dict"`

	// EmploymentGrowth5y is nil when EMP_TOTAL has too little history
	EmploymentGrowth5y     *float64 `parquet:"employment_growth_5y,optional,snappy"`
	TopGrowingIndustries   string   `parquet:"top_growing_industries,snappy"`
	TopDecliningIndustries string   `parquet:"top_declining_industries,snappy"`

	ProjectionPopulationIdx float64  `parquet:"projection_population_idx,snappy"`
	ProjectionHHIncomeIdx   float64  `parquet:"projection_hh_income_idx,snappy"`
	ProjectionAgeMedian     *float64 `parquet:"projection_age_median,optional,snappy"`
	ProjectionHHIncomeP25   float64  `parquet:"projection_hh_income_p25,snappy"`
	ProjectionHHIncomeP75   float64  `parquet:"projection_hh_income_p75,snappy"`
}

// ForecastPoint represents one period of a fitted or forecast series.
type ForecastPoint struct {
	GeoID  string   `parquet:"geo_id,snappy"`
	Metric string   `parquet:"metric,snappy,dict"`
	Period int32    `parquet:"period,snappy"`
	Kind   string   `parquet:"kind,snappy,dict"` // actual or forecast
	Value  float64  `parquet:"value,snappy"`
	Fitted *float64 `parquet:"fitted,optional,snappy"`
	Lower  *float64 `parquet:"lower,optional,snappy"`
	Upper  *float64 `parquet:"upper,optional,snappy"`
}

// MigrationYear represents the net migration of one year for a geography.
type MigrationYear struct {
	GeoID        string  `parquet:"geo_id,snappy"`
	Year         int32   `parquet:"year,snappy"`
	NetMigration float64 `parquet:"net_migration_18_34,snappy"`
}

// Forecast kinds.
const (
	ActualKind   = "actual"
	ForecastKind = "forecast"
)

// writeParquet writes rows of any parquet-tagged struct to a file.
func writeParquet[T any](data []T, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteObservationsParquet writes observations to a Parquet file.
func WriteObservationsParquet(data []Observation, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSnapshotsParquet writes snapshots to a Parquet file.
func WriteSnapshotsParquet(data []Snapshot, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteForecastParquet writes a forecast series to a Parquet file.
func WriteForecastParquet(data []ForecastPoint, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteMigrationParquet writes a migration history to a Parquet file.
func WriteMigrationParquet(data []MigrationYear, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertObservationRecords converts schema.ObservationRecord to Observation for Parquet export.
func ConvertObservationRecords(records []schema.ObservationRecord) []Observation {
	result := make([]Observation, len(records))
	for i, record := range records {
		result[i] = Observation{
			GeoID:      record.GeoID,
			MetricCode: string(record.MetricCode),
			MetricName: record.MetricName,
			Period:     int32(record.Period),
			Value:      record.Value,
		}
	}
	return result
}

// ConvertSnapshots converts schema.SnapshotMetrics to Snapshot for Parquet export.
func ConvertSnapshots(snapshots []schema.SnapshotMetrics) []Snapshot {
	result := make([]Snapshot, len(snapshots))
	for i, s := range snapshots {
		result[i] = Snapshot{
			GeoID:                   s.GeoID,
			AsOf:                    s.AsOfKey(),
			IncomePerCapita:         s.IncomePerCapita,
			HHIncomeMedian:          s.HHIncomeMedian,
			AgeMedian:               s.AgeMedian,
			NetMigration:            s.NetMigration,
			MigrationRollingAvg:     s.MigrationRollingAvg,
			MigrationTrend:          string(s.MigrationTrend),
			MigrationConfidence:     string(s.MigrationConfidence),
			EmploymentGrowth5y:      s.EmploymentGrowth5y,
			TopGrowingIndustries:    encodeIndustries(s.TopGrowingIndustries),
			TopDecliningIndustries:  encodeIndustries(s.TopDecliningIndustries),
			ProjectionPopulationIdx: s.Projection10y.PopulationIdx,
			ProjectionHHIncomeIdx:   s.Projection10y.HHIncomeIdx,
			ProjectionAgeMedian:     s.Projection10y.AgeMedian,
			ProjectionHHIncomeP25:   s.Projection10y.P25.HHIncomeIdx,
			ProjectionHHIncomeP75:   s.Projection10y.P75.HHIncomeIdx,
		}
	}
	return result
}

// ConvertForecast flattens a forecast result into one row per period.
// History rows carry the actual value and its fitted value; forecast rows carry bands.
func ConvertForecast(result schema.ForecastResult) []ForecastPoint {
	rows := make([]ForecastPoint, 0, len(result.History)+len(result.ForecastYears))
	for i, p := range result.History {
		row := ForecastPoint{
			GeoID:  result.GeoID,
			Metric: string(result.Metric),
			Period: int32(p.Period),
			Kind:   ActualKind,
			Value:  p.Value,
		}
		if i < len(result.Projection.Fitted) {
			row.Fitted = schema.Float64Ptr(result.Projection.Fitted[i])
		}
		rows = append(rows, row)
	}
	bands := result.Projection.ConfidenceBands
	for i, year := range result.ForecastYears {
		if i >= len(result.Projection.Forecast) {
			break
		}
		row := ForecastPoint{
			GeoID:  result.GeoID,
			Metric: string(result.Metric),
			Period: int32(year),
			Kind:   ForecastKind,
			Value:  result.Projection.Forecast[i],
		}
		if i < len(bands.Lower) && i < len(bands.Upper) {
			row.Lower = schema.Float64Ptr(bands.Lower[i])
			row.Upper = schema.Float64Ptr(bands.Upper[i])
		}
		rows = append(rows, row)
	}
	return rows
}

// ConvertMigration converts a migration history to MigrationYear rows.
func ConvertMigration(result schema.MigrationResult) []MigrationYear {
	rows := make([]MigrationYear, len(result.History))
	for i, p := range result.History {
		rows[i] = MigrationYear{GeoID: result.GeoID, Year: int32(p.Year), NetMigration: p.NetMigration}
	}
	return rows
}

func encodeIndustries(industries []schema.IndustryTrend) string {
	parts := make([]string, len(industries))
	for i, ind := range industries {
		parts[i] = fmt.Sprintf("%s:%.4f", ind.Code, ind.CAGR)
	}
	return strings.Join(parts, ",")
}
