package algo

import (
	"fmt"
	"math"

	"github.com/huangsam/geotrend/schema"
)

// growthThreshold is the annual rate separating growing or declining series from stable ones.
const growthThreshold = 0.02

// CalculateCAGR computes the compound annual growth rate between two values.
// It returns exactly 0 when either value is non-positive or non-finite, when years
// is non-positive, or when the ratio overflows.
func CalculateCAGR(start, end float64, years int) float64 {
	if !isFinite(start) || !isFinite(end) || start <= 0 || end <= 0 || years <= 0 {
		return 0
	}
	cagr := math.Pow(end/start, 1.0/float64(years)) - 1
	if !isFinite(cagr) {
		return 0
	}
	return cagr
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CalculateCAGRWithMetadata computes the CAGR and keeps its inputs alongside it.
func CalculateCAGRWithMetadata(start, end float64, years int) schema.CAGRResult {
	return schema.CAGRResult{
		CAGR:       CalculateCAGR(start, end, years),
		Years:      years,
		StartValue: start,
		EndValue:   end,
	}
}

// CAGRFromSeries computes the CAGR between the earliest and latest points of a series.
// The number of years is the gap between their periods.
func CAGRFromSeries(points []schema.TimeSeriesPoint) schema.CAGRResult {
	if len(points) < 2 {
		return schema.CAGRResult{}
	}
	first, last := points[0], points[0]
	for _, p := range points[1:] {
		if p.Period < first.Period {
			first = p
		}
		if p.Period > last.Period {
			last = p
		}
	}
	return CalculateCAGRWithMetadata(first.Value, last.Value, last.Period-first.Period)
}

// ClassifyGrowthTrend labels a growth rate against the fixed 2% annual threshold.
func ClassifyGrowthTrend(cagr float64) schema.GrowthTrend {
	switch {
	case cagr > growthThreshold:
		return schema.GrowingTrend
	case cagr < -growthThreshold:
		return schema.DecliningTrend
	default:
		return schema.StableGrowth
	}
}

// FormatCAGR renders a growth rate as a signed percentage, e.g. 0.037 becomes "+3.7%".
func FormatCAGR(cagr float64) string {
	return fmt.Sprintf("%+.1f%%", cagr*100)
}
