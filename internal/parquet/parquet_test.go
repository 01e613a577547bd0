package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/geotrend/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshots() []schema.SnapshotMetrics {
	asOf := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	return []schema.SnapshotMetrics{
		{
			GeoID:               "06075",
			AsOf:                asOf,
			IncomePerCapita:     schema.Float64Ptr(78000),
			HHIncomeMedian:      schema.Float64Ptr(126000),
			AgeMedian:           schema.Float64Ptr(39.1),
			NetMigration:        -120,
			MigrationRollingAvg: -80,
			MigrationTrend:      schema.DecreasingTrend,
			MigrationConfidence: schema.MediumConfidence,
			EmploymentGrowth5y:  schema.Float64Ptr(0.012),
			TopGrowingIndustries: []schema.IndustryTrend{
				{Code: "EMP_54", Name: "Professional services", CAGR: 0.041},
			},
			TopDecliningIndustries: []schema.IndustryTrend{
				{Code: "EMP_44", Name: "Retail", CAGR: -0.02},
			},
			Projection10y: schema.ProjectionIndices{
				PopulationIdx: 1.02,
				HHIncomeIdx:   1.3,
				AgeMedian:     schema.Float64Ptr(41),
				P25:           schema.PercentileIndex{HHIncomeIdx: 1.2},
				P75:           schema.PercentileIndex{HHIncomeIdx: 1.4},
			},
		},
		{
			GeoID:               "48453",
			AsOf:                asOf,
			NetMigration:        15,
			MigrationTrend:      schema.StableTrend,
			MigrationConfidence: schema.LowConfidence,
			Projection10y:       schema.NeutralProjectionIndices(),
		},
	}
}

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestSnapshotStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Snapshot))
	require.NotNil(t, s)

	expectedColumns := []string{
		"geo_id", "as_of", "income_per_capita", "hh_income_median", "age_median",
		"net_migration", "migration_rolling_avg", "migration_trend", "migration_confidence",
		"employment_growth_5y", "top_growing_industries", "top_declining_industries",
		"projection_population_idx", "projection_hh_income_idx", "projection_age_median",
		"projection_hh_income_p25", "projection_hh_income_p75",
	}
	for _, colName := range expectedColumns {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestConvertSnapshots(t *testing.T) {
	rows := ConvertSnapshots(sampleSnapshots())
	require.Len(t, rows, 2)

	assert.Equal(t, "06075", rows[0].GeoID)
	assert.Equal(t, "2024-12-31", rows[0].AsOf)
	assert.Equal(t, "EMP_54:0.0410", rows[0].TopGrowingIndustries)
	assert.Equal(t, "EMP_44:-0.0200", rows[0].TopDecliningIndustries)
	assert.Equal(t, 1.2, rows[0].ProjectionHHIncomeP25)
	require.NotNil(t, rows[0].ProjectionAgeMedian)
	assert.Equal(t, 41.0, *rows[0].ProjectionAgeMedian)

	assert.Nil(t, rows[1].HHIncomeMedian)
	assert.Nil(t, rows[1].ProjectionAgeMedian)
	assert.Equal(t, "", rows[1].TopGrowingIndustries)
	assert.Equal(t, 1.0, rows[1].ProjectionPopulationIdx)
}

func TestWriteSnapshotsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "snapshots.parquet")
	data := ConvertSnapshots(sampleSnapshots())

	require.NoError(t, WriteSnapshotsParquet(data, outputPath))

	readData := readAll[Snapshot](t, outputPath)
	require.Len(t, readData, len(data))
	for i := range data {
		assert.Equal(t, data[i].GeoID, readData[i].GeoID)
		assert.Equal(t, data[i].AsOf, readData[i].AsOf)
		assert.Equal(t, data[i].NetMigration, readData[i].NetMigration)
		if data[i].HHIncomeMedian == nil {
			assert.Nil(t, readData[i].HHIncomeMedian)
		} else {
			require.NotNil(t, readData[i].HHIncomeMedian)
			assert.Equal(t, *data[i].HHIncomeMedian, *readData[i].HHIncomeMedian)
		}
	}
}

func TestWriteObservationsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "observations.parquet")
	data := ConvertObservationRecords([]schema.ObservationRecord{
		{GeoID: "06075", MetricCode: schema.PopulationMetric, MetricName: "Population", Period: 2023, Value: 808000},
		{GeoID: "06075", MetricCode: schema.PopulationMetric, MetricName: "Population", Period: 2024, Value: 810000},
	})

	require.NoError(t, WriteObservationsParquet(data, outputPath))

	readData := readAll[Observation](t, outputPath)
	assert.Equal(t, data, readData)
}

func TestConvertForecast(t *testing.T) {
	result := schema.ForecastResult{
		GeoID:         "06075",
		Metric:        schema.PopulationMetric,
		History:       []schema.TimeSeriesPoint{{Period: 2023, Value: 100}, {Period: 2024, Value: 110}},
		ForecastYears: []int{2025, 2026},
		Projection: schema.ProjectionResult{
			Forecast: []float64{120, 130},
			ConfidenceBands: schema.ConfidenceBands{
				Lower: []float64{118, 127},
				Upper: []float64{122, 133},
			},
			Fitted: []float64{100, 110},
		},
	}

	rows := ConvertForecast(result)
	require.Len(t, rows, 4)
	assert.Equal(t, ActualKind, rows[0].Kind)
	require.NotNil(t, rows[1].Fitted)
	assert.Equal(t, 110.0, *rows[1].Fitted)
	assert.Nil(t, rows[1].Lower)
	assert.Equal(t, ForecastKind, rows[3].Kind)
	assert.Equal(t, int32(2026), rows[3].Period)
	require.NotNil(t, rows[3].Upper)
	assert.Equal(t, 133.0, *rows[3].Upper)

	outputPath := filepath.Join(t.TempDir(), "forecast.parquet")
	require.NoError(t, WriteForecastParquet(rows, outputPath))
	assert.Len(t, readAll[ForecastPoint](t, outputPath), 4)
}

func TestConvertMigration(t *testing.T) {
	rows := ConvertMigration(schema.MigrationResult{
		GeoID:   "06075",
		History: []schema.MigrationPoint{{Year: 2023, NetMigration: -5}, {Year: 2024, NetMigration: 12}},
	})
	assert.Equal(t, []MigrationYear{
		{GeoID: "06075", Year: 2023, NetMigration: -5},
		{GeoID: "06075", Year: 2024, NetMigration: 12},
	}, rows)

	outputPath := filepath.Join(t.TempDir(), "migration.parquet")
	require.NoError(t, WriteMigrationParquet(rows, outputPath))
	assert.Equal(t, rows, readAll[MigrationYear](t, outputPath))
}

func TestWriteParquetInvalidPath(t *testing.T) {
	err := WriteSnapshotsParquet(nil, filepath.Join(t.TempDir(), "missing", "out.parquet"))
	assert.Error(t, err)
}
