package core

import (
	"github.com/huangsam/geotrend/core/algo"
	"github.com/huangsam/geotrend/schema"
)

// projectionHorizon is the number of years folded into a snapshot's projection.
const projectionHorizon = 10

// SeriesProjection is the forecast of one series, or the reason it has none.
type SeriesProjection struct {
	Result schema.ProjectionResult
	Err    error
}

// finalForecast returns the last forecast value and the matching band edges.
func (s SeriesProjection) finalForecast() (forecast, lower, upper float64, ok bool) {
	n := len(s.Result.Forecast)
	if s.Err != nil || n == 0 {
		return 0, 0, 0, false
	}
	return s.Result.Forecast[n-1], s.Result.ConfidenceBands.Lower[n-1], s.Result.ConfidenceBands.Upper[n-1], true
}

// Projections holds the per-series forecasts of a geography.
type Projections struct {
	Income     SeriesProjection
	Population SeriesProjection
	Age        SeriesProjection
}

// CurrentValues are the latest observed values that forecasts are indexed against.
type CurrentValues struct {
	HHIncome   *float64
	Population *float64
}

// GenerateProjections forecasts each series independently over a fixed 10 year horizon.
// A series that cannot be forecast records its error without affecting the others.
func GenerateProjections(income, population, age []schema.TimeSeriesPoint) Projections {
	opts := algo.DefaultForecastOptions()
	opts.Periods = projectionHorizon

	project := func(series []schema.TimeSeriesPoint) SeriesProjection {
		result, err := algo.HoltWintersForecast(series, opts)
		return SeriesProjection{Result: result, Err: err}
	}

	return Projections{
		Income:     project(income),
		Population: project(population),
		Age:        project(age),
	}
}

// FormatProjectionForAPI reduces projections to the indices stored on a snapshot.
// Each index is the final forecast over the latest actual and falls back to 1.0
// when the series failed or the latest actual is not positive.
func FormatProjectionForAPI(p Projections, current CurrentValues) schema.ProjectionIndices {
	indices := schema.NeutralProjectionIndices()

	if f, _, _, ok := p.Population.finalForecast(); ok && positive(current.Population) {
		indices.PopulationIdx = f / *current.Population
	}

	if f, lower, upper, ok := p.Income.finalForecast(); ok && positive(current.HHIncome) {
		indices.HHIncomeIdx = f / *current.HHIncome
		indices.P25.HHIncomeIdx = lower / *current.HHIncome
		indices.P75.HHIncomeIdx = upper / *current.HHIncome
	}

	if f, _, _, ok := p.Age.finalForecast(); ok {
		indices.AgeMedian = schema.Float64Ptr(f)
	}

	return indices
}

func positive(v *float64) bool {
	return v != nil && *v > 0
}
