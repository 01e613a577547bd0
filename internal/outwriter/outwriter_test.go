package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAsOf = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{
		Output:       output,
		Precision:    1,
		Width:        120,
		StoreBackend: schema.SQLiteBackend,
	}
}

func sampleSnapshot(geoID string) schema.SnapshotMetrics {
	return schema.SnapshotMetrics{
		GeoID:               geoID,
		AsOf:                testAsOf,
		IncomePerCapita:     schema.Float64Ptr(52000),
		HHIncomeMedian:      schema.Float64Ptr(81000.5),
		AgeMedian:           nil,
		NetMigration:        120,
		MigrationRollingAvg: 95.5,
		MigrationTrend:      schema.IncreasingTrend,
		MigrationConfidence: schema.HighConfidence,
		EmploymentGrowth5y:  schema.Float64Ptr(0.031),
		TopGrowingIndustries: []schema.IndustryTrend{
			{Code: "EMP_54", Name: "Tech", CAGR: 0.08},
		},
		Projection10y: schema.ProjectionIndices{
			PopulationIdx: 1.05,
			HHIncomeIdx:   1.2,
			P25:           schema.PercentileIndex{HHIncomeIdx: 1.1},
			P75:           schema.PercentileIndex{HHIncomeIdx: 1.3},
		},
	}
}

func csvLines(t *testing.T, s string) []string {
	t.Helper()
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestGetMaxTableNameWidth(t *testing.T) {
	tests := []struct {
		width    int
		expected int
	}{
		{width: 50, expected: 12},
		{width: 120, expected: 20},
		{width: 300, expected: 40},
	}
	for _, tt := range tests {
		cfg := &contract.Config{Width: tt.width}
		assert.Equal(t, tt.expected, GetMaxTableNameWidth(cfg), "width %d", tt.width)
	}
}

func TestWriteSnapshotResults(t *testing.T) {
	snapshots := []schema.SnapshotMetrics{sampleSnapshot("06075")}

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSnapshotResults(&buf, snapshots, testConfig(schema.CSVOut)))
		lines := csvLines(t, buf.String())
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "geo_id,asof,income_per_capita"))
		assert.Equal(t, "06075,2025-01-01,52000.0,81000.5,,120.0,95.5,increasing,high,0.0,Tech,,1.1,1.2,,1.1,1.3", lines[1])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSnapshotResults(&buf, snapshots, testConfig(schema.JSONOut)))
		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded, 1)
		assert.Equal(t, "06075", decoded[0]["geo_id"])
		assert.Nil(t, decoded[0]["age_median"])
	})

	t.Run("json empty is an array", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSnapshotResults(&buf, nil, testConfig(schema.JSONOut)))
		assert.Equal(t, "[]\n", buf.String())
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSnapshotResults(&buf, snapshots, testConfig(schema.TextOut)))
		out := buf.String()
		assert.Contains(t, out, "06075")
		assert.Contains(t, out, "increasing")
		assert.Contains(t, out, "3.1%")
		assert.Contains(t, out, "Showing 1 snapshots")
	})
}

func TestWriteBatchReport(t *testing.T) {
	report := schema.BatchReport{
		AsOf:      testAsOf,
		Snapshots: []schema.SnapshotMetrics{sampleSnapshot("G1")},
		Failures:  []schema.GeoFailure{{GeoID: "G2", Error: "read failed"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBatchReport(&buf, report, testConfig(schema.TextOut), time.Second))
	out := buf.String()
	assert.Contains(t, out, "❌ G2: read failed")
	assert.Contains(t, out, "Built 1 snapshots as of 2025-01-01 (1 failed) in 1s. Store backend: sqlite")

	buf.Reset()
	require.NoError(t, WriteBatchReport(&buf, report, testConfig(schema.CSVOut), time.Second))
	assert.NotContains(t, buf.String(), "Built")
	assert.Len(t, csvLines(t, buf.String()), 2)
}

func TestPrintBatchReportJSON(t *testing.T) {
	cfg := testConfig(schema.JSONOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, PrintBatchReport(schema.BatchReport{AsOf: testAsOf}, cfg, time.Second))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, []any{}, decoded["snapshots"])
	assert.Equal(t, []any{}, decoded["failures"])
}

func TestWriteComparisonResults(t *testing.T) {
	result := schema.ComparisonResult{
		AsOf:     testAsOf,
		Baseline: sampleSnapshot("G1"),
		Details: []schema.ComparisonDetail{{
			GeoID:              "G2",
			DeltaHHIncome:      schema.Float64Ptr(-1500),
			DeltaNetMigration:  30,
			DeltaHHIncomeIdx:   0.05,
			DeltaPopulationIdx: -0.01,
			SameTopGrowing:     true,
			Snapshot:           sampleSnapshot("G2"),
		}},
	}

	t.Run("csv leaves missing deltas empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteComparisonResults(&buf, result, testConfig(schema.CSVOut)))
		lines := csvLines(t, buf.String())
		require.Len(t, lines, 2)
		assert.Equal(t, "G1,G2,2025-01-01,-1500.0,,,30.0,0.1,-0.0,true", lines[1])
	})

	t.Run("table shows arrows", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteComparisonResults(&buf, result, testConfig(schema.TextOut)))
		out := buf.String()
		assert.Contains(t, out, "Baseline G1 as of 2025-01-01")
		assert.Contains(t, out, "-1500.0 ▼")
		assert.Contains(t, out, "+30.0 ▲")
	})
}

func sampleForecast() schema.ForecastResult {
	return schema.ForecastResult{
		GeoID:      "06075",
		Metric:     schema.HHIncomeMedianMetric,
		MetricName: "Median household income",
		History: []schema.TimeSeriesPoint{
			{Period: 2022, Value: 100}, {Period: 2023, Value: 110}, {Period: 2024, Value: 120},
		},
		ForecastYears: []int{2025, 2026},
		Projection: schema.ProjectionResult{
			Forecast:        []float64{130, 140},
			ConfidenceBands: schema.ConfidenceBands{Lower: []float64{125, 135}, Upper: []float64{135, 145}},
			MAPE:            2.5,
			Fitted:          []float64{100, 110, 120},
		},
		CAGR: schema.CAGRResult{CAGR: 0.0954, Years: 2, StartValue: 100, EndValue: 120},
	}
}

func TestWriteForecastResults(t *testing.T) {
	t.Run("csv rows run history then horizon", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteForecastResults(&buf, sampleForecast(), testConfig(schema.CSVOut)))
		lines := csvLines(t, buf.String())
		require.Len(t, lines, 6)
		assert.Equal(t, "06075,HH_INCOME_MEDIAN,2022,actual,100.0,100.0,,", lines[1])
		assert.Equal(t, "06075,HH_INCOME_MEDIAN,2026,forecast,140.0,,135.0,145.0", lines[5])
	})

	t.Run("table has summary", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteForecastResults(&buf, sampleForecast(), testConfig(schema.TextOut)))
		out := buf.String()
		assert.Contains(t, out, "Median household income (HH_INCOME_MEDIAN) for 06075")
		assert.Contains(t, out, "History CAGR 9.5% over 2 years (Growing). MAPE 2.5%")
	})
}

func TestPrintForecastParquet(t *testing.T) {
	cfg := testConfig(schema.ParquetOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "forecast.parquet")
	require.NoError(t, PrintForecast(sampleForecast(), cfg))

	info, err := os.Stat(cfg.OutputFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestWriteMigrationResults(t *testing.T) {
	result := schema.MigrationResult{
		GeoID: "06075",
		Year:  2024,
		Signal: schema.MigrationSignal{
			NetMigration:   60,
			RollingAverage: 50,
			Trend:          schema.IncreasingTrend,
			Confidence:     schema.HighConfidence,
		},
		Description: "Moderate influx of young adults (trending upward)",
		History:     []schema.MigrationPoint{{Year: 2024, NetMigration: 60}, {Year: 2023, NetMigration: 40}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMigrationResults(&buf, result, testConfig(schema.CSVOut)))
	lines := csvLines(t, buf.String())
	require.Len(t, lines, 2)
	assert.Equal(t, "06075,2024,60.0,50.0,increasing,high,Moderate influx of young adults (trending upward)", lines[1])

	buf.Reset()
	require.NoError(t, WriteMigrationResults(&buf, result, testConfig(schema.TextOut)))
	out := buf.String()
	assert.Less(t, strings.Index(out, "2023"), strings.Index(out, "2024"))
	assert.Contains(t, out, "Rolling average: 50.0")
	assert.Contains(t, out, "Summary:         Moderate influx")
}

func TestWriteCAGRResults(t *testing.T) {
	result := schema.CAGRSummary{
		CAGRResult: schema.CAGRResult{CAGR: 0.148698, Years: 5, StartValue: 100, EndValue: 200},
		Trend:      schema.GrowingTrend,
		Formatted:  "+14.9%",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCAGRResults(&buf, result, testConfig(schema.TextOut)))
	assert.Equal(t, "100.0 → 200.0 over 5 years: +14.9% (Growing)\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCAGRResults(&buf, result, testConfig(schema.CSVOut)))
	assert.Equal(t, "start_value,end_value,years,cagr,trend,formatted\n100.0,200.0,5,0.148698,growing,+14.9%\n", buf.String())

	assert.ErrorIs(t, PrintCAGR(result, testConfig(schema.ParquetOut)), ErrParquetUnsupported)
}

func TestOutWriterWritesToFile(t *testing.T) {
	ow := NewOutWriter()
	cfg := testConfig(schema.JSONOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "snapshots.json")

	require.NoError(t, ow.WriteSnapshots([]schema.SnapshotMetrics{sampleSnapshot("G1")}, cfg))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"geo_id": "G1"`)
}
