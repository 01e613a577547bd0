package core

import (
	"testing"

	"github.com/huangsam/geotrend/core/algo"
	"github.com/huangsam/geotrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearSeries(start, step float64, from, n int) []schema.TimeSeriesPoint {
	points := make([]schema.TimeSeriesPoint, n)
	for i := range points {
		points[i] = schema.TimeSeriesPoint{Period: from + i, Value: start + step*float64(i)}
	}
	return points
}

func TestGenerateProjections(t *testing.T) {
	income := linearSeries(100, 10, 2020, 5)
	population := []schema.TimeSeriesPoint{{Period: 2024, Value: 1000}}

	p := GenerateProjections(income, population, nil)

	require.NoError(t, p.Income.Err)
	require.Len(t, p.Income.Result.Forecast, projectionHorizon)
	assert.InDelta(t, 240.0, p.Income.Result.Forecast[projectionHorizon-1], 1e-9)

	assert.ErrorIs(t, p.Population.Err, algo.ErrInsufficientData)
	assert.ErrorIs(t, p.Age.Err, algo.ErrInsufficientData)
}

func TestFormatProjectionForAPI(t *testing.T) {
	income := linearSeries(100, 10, 2020, 5)
	population := linearSeries(1000, -10, 2020, 5)
	age := linearSeries(35, 0.5, 2020, 5)
	p := GenerateProjections(income, population, age)

	tests := []struct {
		name     string
		p        Projections
		current  CurrentValues
		popIdx   float64
		incIdx   float64
		hasAge   bool
		neutralB bool
	}{
		{
			name:    "all series forecast",
			p:       p,
			current: CurrentValues{HHIncome: schema.Float64Ptr(140), Population: schema.Float64Ptr(960)},
			popIdx:  860.0 / 960.0,
			incIdx:  240.0 / 140.0,
			hasAge:  true,
		},
		{
			name:     "non-positive current values fall back",
			p:        p,
			current:  CurrentValues{HHIncome: schema.Float64Ptr(0), Population: nil},
			popIdx:   1.0,
			incIdx:   1.0,
			hasAge:   true,
			neutralB: true,
		},
		{
			name:     "failed series fall back",
			p:        GenerateProjections(nil, income[:1], nil),
			current:  CurrentValues{HHIncome: schema.Float64Ptr(140), Population: schema.Float64Ptr(960)},
			popIdx:   1.0,
			incIdx:   1.0,
			neutralB: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatProjectionForAPI(tt.p, tt.current)
			assert.InDelta(t, tt.popIdx, got.PopulationIdx, 1e-9)
			assert.InDelta(t, tt.incIdx, got.HHIncomeIdx, 1e-9)
			if tt.hasAge {
				require.NotNil(t, got.AgeMedian)
				assert.InDelta(t, 42.0, *got.AgeMedian, 1e-9)
			} else {
				assert.Nil(t, got.AgeMedian)
			}
			if tt.neutralB {
				assert.Equal(t, 1.0, got.P25.HHIncomeIdx)
				assert.Equal(t, 1.0, got.P75.HHIncomeIdx)
			} else {
				assert.LessOrEqual(t, got.P25.HHIncomeIdx, got.HHIncomeIdx)
				assert.GreaterOrEqual(t, got.P75.HHIncomeIdx, got.HHIncomeIdx)
			}
		})
	}
}

func TestFormatProjectionForAPI_Bands(t *testing.T) {
	p := Projections{
		Income: SeriesProjection{Result: schema.ProjectionResult{
			Forecast:        []float64{110, 120},
			ConfidenceBands: schema.ConfidenceBands{Lower: []float64{100, 108}, Upper: []float64{120, 132}},
		}},
		Population: SeriesProjection{Err: algo.ErrInsufficientData},
		Age:        SeriesProjection{Err: algo.ErrInsufficientData},
	}

	got := FormatProjectionForAPI(p, CurrentValues{HHIncome: schema.Float64Ptr(100)})
	assert.InDelta(t, 1.2, got.HHIncomeIdx, 1e-12)
	assert.InDelta(t, 1.08, got.P25.HHIncomeIdx, 1e-12)
	assert.InDelta(t, 1.32, got.P75.HHIncomeIdx, 1e-12)
	assert.Equal(t, 1.0, got.PopulationIdx)
	assert.Nil(t, got.AgeMedian)
}
