package algo

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/geotrend/schema"
)

var (
	// ErrInsufficientData is returned when a series is too short to forecast.
	ErrInsufficientData = errors.New("at least 2 data points are required")

	// ErrInvalidParameters is returned when forecast options are out of range.
	ErrInvalidParameters = errors.New("invalid forecast parameters")
)

// ForecastOptions controls the double exponential smoothing forecaster.
type ForecastOptions struct {
	Periods int     // Forecast horizon
	Alpha   float64 // Level smoothing in [0,1]
	Beta    float64 // Trend smoothing in [0,1]
}

// DefaultForecastOptions returns a 10 period horizon with alpha 0.3 and beta 0.1.
func DefaultForecastOptions() ForecastOptions {
	return ForecastOptions{Periods: 10, Alpha: 0.3, Beta: 0.1}
}

// Validate checks the horizon and smoothing parameters.
func (o ForecastOptions) Validate() error {
	if o.Periods < 1 {
		return fmt.Errorf("%w: periods must be at least 1, got %d", ErrInvalidParameters, o.Periods)
	}
	if o.Alpha < 0 || o.Alpha > 1 || math.IsNaN(o.Alpha) {
		return fmt.Errorf("%w: alpha must be in [0,1], got %v", ErrInvalidParameters, o.Alpha)
	}
	if o.Beta < 0 || o.Beta > 1 || math.IsNaN(o.Beta) {
		return fmt.Errorf("%w: beta must be in [0,1], got %v", ErrInvalidParameters, o.Beta)
	}
	return nil
}

// HoltWintersForecast fits a level and trend to the series with double exponential
// smoothing and extrapolates them linearly. Seasonality is not modeled.
// The bands are forecast*(1 ± MAPE/100), a proportional envelope rather than a
// statistical prediction interval.
func HoltWintersForecast(data []schema.TimeSeriesPoint, opts ForecastOptions) (schema.ProjectionResult, error) {
	if err := opts.Validate(); err != nil {
		return schema.ProjectionResult{}, err
	}
	if len(data) < 2 {
		return schema.ProjectionResult{}, fmt.Errorf("%w: got %d", ErrInsufficientData, len(data))
	}

	sorted := slices.Clone(data)
	slices.SortStableFunc(sorted, func(a, b schema.TimeSeriesPoint) int {
		return a.Period - b.Period
	})
	values := schema.ValuesOf(sorted)

	level := values[0]
	trend := values[1] - values[0]
	fitted := make([]float64, len(values))
	fitted[0] = level

	for i := 1; i < len(values); i++ {
		newLevel := opts.Alpha*values[i] + (1-opts.Alpha)*(level+trend)
		newTrend := opts.Beta*(newLevel-level) + (1-opts.Beta)*trend
		fitted[i] = newLevel
		level, trend = newLevel, newTrend
	}

	forecast := make([]float64, opts.Periods)
	for i := range forecast {
		forecast[i] = level + float64(i+1)*trend
	}

	mape := meanAbsolutePercentageError(values, fitted)

	lower := make([]float64, opts.Periods)
	upper := make([]float64, opts.Periods)
	for i, f := range forecast {
		lower[i] = f * (1 - mape/100)
		upper[i] = f * (1 + mape/100)
	}

	return schema.ProjectionResult{
		Forecast:        forecast,
		ConfidenceBands: schema.ConfidenceBands{Lower: lower, Upper: upper},
		MAPE:            mape,
		Fitted:          fitted,
	}, nil
}

// meanAbsolutePercentageError skips the first fitted point, which is the seed level.
// Points whose actual value is zero have no defined percentage error and are skipped.
// The error is relative to |actual| so series with negative values get a positive MAPE.
func meanAbsolutePercentageError(actual, fitted []float64) float64 {
	var sum float64
	var count int
	for i := 1; i < len(actual); i++ {
		if actual[i] == 0 {
			continue
		}
		sum += math.Abs(actual[i]-fitted[i]) / math.Abs(actual[i]) * 100
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
