package algo

import (
	"math"
	"testing"

	"github.com/huangsam/geotrend/schema"
	"github.com/stretchr/testify/assert"
)

func migrationSeries(start int, values ...float64) []schema.MigrationPoint {
	points := make([]schema.MigrationPoint, len(values))
	for i, v := range values {
		points[i] = schema.MigrationPoint{Year: start + i, NetMigration: v}
	}
	return points
}

func TestCalculateRollingAverage(t *testing.T) {
	tests := []struct {
		name     string
		data     []schema.MigrationPoint
		year     int
		expected float64
	}{
		{"full window", migrationSeries(2018, 10, 20, 30, 40, 50), 2022, 40},
		{"partial window", migrationSeries(2021, 30, 60), 2022, 45},
		{"window before data", migrationSeries(2020, 10, 20), 2017, 0},
		{"empty", nil, 2022, 0},
		{
			"unordered input",
			[]schema.MigrationPoint{{Year: 2022, NetMigration: 9}, {Year: 2020, NetMigration: 3}, {Year: 2021, NetMigration: 6}},
			2022,
			6,
		},
		{"ignores years after reference", migrationSeries(2020, 10, 20, 30, 1000), 2022, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateRollingAverage(tt.data, tt.year), 1e-9)
		})
	}
}

func TestAnalyzeMigrationSignal(t *testing.T) {
	tests := []struct {
		name     string
		data     []schema.MigrationPoint
		year     int
		expected schema.MigrationSignal
	}{
		{
			name: "strong increase with full history",
			data: migrationSeries(2017, 0, 0, 0, 40, 50, 60),
			year: 2022,
			expected: schema.MigrationSignal{
				NetMigration:   60,
				RollingAverage: 50,
				Trend:          schema.IncreasingTrend,
				Confidence:     schema.HighConfidence,
			},
		},
		{
			name: "decrease with medium confidence",
			data: migrationSeries(2019, 10, 0, -5, -10),
			year: 2022,
			expected: schema.MigrationSignal{
				NetMigration:   -10,
				RollingAverage: -5,
				Trend:          schema.DecreasingTrend,
				Confidence:     schema.MediumConfidence,
			},
		},
		{
			name: "stable series",
			data: migrationSeries(2017, 5, 5, 5, 5, 5, 5),
			year: 2022,
			expected: schema.MigrationSignal{
				NetMigration:   5,
				RollingAverage: 5,
				Trend:          schema.StableTrend,
				Confidence:     schema.MediumConfidence,
			},
		},
		{
			name: "reference year missing",
			data: migrationSeries(2019, 12, 18),
			year: 2022,
			expected: schema.MigrationSignal{
				NetMigration:   0,
				RollingAverage: 18,
				Trend:          schema.StableTrend,
				Confidence:     schema.LowConfidence,
			},
		},
		{
			name: "empty series",
			data: nil,
			year: 2022,
			expected: schema.MigrationSignal{
				Trend:      schema.StableTrend,
				Confidence: schema.LowConfidence,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeMigrationSignal(tt.data, tt.year)
			assert.InDelta(t, tt.expected.NetMigration, got.NetMigration, 1e-9)
			assert.InDelta(t, tt.expected.RollingAverage, got.RollingAverage, 1e-9)
			assert.Equal(t, tt.expected.Trend, got.Trend)
			assert.Equal(t, tt.expected.Confidence, got.Confidence)
		})
	}
}

// TestAnalyzeMigrationSignalUsesLaggedWindow ensures the earlier window ends at year-3.
func TestAnalyzeMigrationSignalUsesLaggedWindow(t *testing.T) {
	// Windows: [2017..2019] = 100, [2020..2022] = 100 -> stable.
	data := migrationSeries(2017, 100, 100, 100, 100, 100, 100)
	signal := AnalyzeMigrationSignal(data, 2022)
	assert.Equal(t, schema.StableTrend, signal.Trend)

	// A series increasing by more than 10 between the two windows.
	data = migrationSeries(2017, 0, 0, 0, 11, 11, 11)
	signal = AnalyzeMigrationSignal(data, 2022)
	assert.Equal(t, schema.IncreasingTrend, signal.Trend)
	assert.Equal(t, schema.MediumConfidence, signal.Confidence)
}

func TestGenerateMigrationDescription(t *testing.T) {
	tests := []struct {
		name     string
		signal   schema.MigrationSignal
		expected string
	}{
		{
			name:     "significant influx trending upward",
			signal:   schema.MigrationSignal{RollingAverage: 75, Trend: schema.IncreasingTrend, Confidence: schema.HighConfidence},
			expected: "Significant influx of young adults (trending upward)",
		},
		{
			name:     "moderate influx",
			signal:   schema.MigrationSignal{RollingAverage: 25, Trend: schema.StableTrend, Confidence: schema.MediumConfidence},
			expected: "Moderate influx of young adults",
		},
		{
			name:     "significant outflow trending downward with limited data",
			signal:   schema.MigrationSignal{RollingAverage: -51, Trend: schema.DecreasingTrend, Confidence: schema.LowConfidence},
			expected: "Significant outflow of young adults (trending downward) (limited data)",
		},
		{
			name:     "moderate outflow",
			signal:   schema.MigrationSignal{RollingAverage: -11, Trend: schema.StableTrend, Confidence: schema.MediumConfidence},
			expected: "Moderate outflow of young adults",
		},
		{
			name:     "stable at the boundary",
			signal:   schema.MigrationSignal{RollingAverage: 10, Trend: schema.StableTrend, Confidence: schema.HighConfidence},
			expected: "Stable population",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateMigrationDescription(tt.signal))
		})
	}
}

// BenchmarkAnalyzeMigrationSignal benchmarks the migration heuristic.
func BenchmarkAnalyzeMigrationSignal(b *testing.B) {
	data := migrationSeries(2015, 5, 12, -3, 20, 18, 25, 40, 38)
	for b.Loop() {
		_ = AnalyzeMigrationSignal(data, 2022)
	}
}

// FuzzAnalyzeMigrationSignal ensures the labels always come from the fixed sets.
func FuzzAnalyzeMigrationSignal(f *testing.F) {
	f.Add(2022, 10.0, -20.0, 35.0, 4.0)
	f.Add(2000, 0.0, 0.0, 0.0, 0.0)

	f.Fuzz(func(t *testing.T, year int, a, b, c, d float64) {
		data := migrationSeries(year-3, a, b, c, d)
		signal := AnalyzeMigrationSignal(data, year)
		switch signal.Trend {
		case schema.IncreasingTrend, schema.DecreasingTrend, schema.StableTrend:
		default:
			t.Errorf("unexpected trend %q", signal.Trend)
		}
		switch signal.Confidence {
		case schema.HighConfidence, schema.MediumConfidence, schema.LowConfidence:
		default:
			t.Errorf("unexpected confidence %q", signal.Confidence)
		}
		if !math.IsNaN(d) && signal.NetMigration != d {
			t.Errorf("net migration = %v, want %v", signal.NetMigration, d)
		}
	})
}
