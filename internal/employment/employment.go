// Package employment derives industry employment trends from the observation store.
package employment

import (
	"context"
	"fmt"
	"sort"

	"github.com/huangsam/geotrend/core/algo"
	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/schema"
)

// TopIndustries is the number of growing and declining industries kept per geography.
const TopIndustries = 3

// GrowthYears is the period gap of the total employment growth rate.
const GrowthYears = 5

// TrendSource implements contract.IndustryTrendSource over employment observations.
// EMP_TOTAL drives the five year growth figure and every other EMP_* code is an industry.
type TrendSource struct {
	store         contract.ObservationStore
	lookbackYears int
}

// NewTrendSource creates a trend source reading the given lookback window.
func NewTrendSource(store contract.ObservationStore, lookbackYears int) *TrendSource {
	if lookbackYears <= 0 {
		lookbackYears = contract.DefaultLookbackYears
	}
	return &TrendSource{store: store, lookbackYears: lookbackYears}
}

// IndustryTrends computes total employment growth and the top growing and declining industries.
func (s *TrendSource) IndustryTrends(ctx context.Context, geoID string, asOfYear int) (schema.IndustryTrends, error) {
	var trends schema.IndustryTrends

	// Periods asOfYear-GrowthYears through asOfYear, independent of the industry lookback
	total, err := s.store.FetchObservations(ctx, geoID, schema.EmploymentTotalMetric, asOfYear, GrowthYears+1)
	if err != nil {
		return trends, fmt.Errorf("fetch %s: %w", schema.EmploymentTotalMetric, err)
	}
	if len(total) >= 2 {
		growth := algo.CAGRFromSeries(total)
		if growth.Years > 0 {
			trends.EmploymentGrowth5y = schema.Float64Ptr(growth.CAGR)
		}
	}

	codes, err := s.store.ListMetricCodes(ctx, geoID, schema.EmploymentIndustryPrefix)
	if err != nil {
		return trends, fmt.Errorf("list industries: %w", err)
	}

	var industries []schema.IndustryTrend
	for _, code := range codes {
		if code == schema.EmploymentTotalMetric {
			continue
		}
		points, err := s.store.FetchObservations(ctx, geoID, code, asOfYear, s.lookbackYears)
		if err != nil {
			return trends, fmt.Errorf("fetch %s: %w", code, err)
		}
		growth := algo.CAGRFromSeries(points)
		if growth.Years == 0 {
			continue
		}
		name, err := s.store.MetricName(ctx, code)
		if err != nil {
			return trends, fmt.Errorf("metric name %s: %w", code, err)
		}
		industries = append(industries, schema.IndustryTrend{Code: string(code), Name: name, CAGR: growth.CAGR})
	}

	trends.TopGrowing, trends.TopDeclining = RankIndustries(industries, TopIndustries)
	return trends, nil
}

// RankIndustries splits industries into the fastest growing (cagr > 0, descending)
// and fastest declining (cagr < 0, ascending), keeping at most limit of each.
// Ties are broken by code so the ranking is deterministic.
func RankIndustries(industries []schema.IndustryTrend, limit int) (growing, declining []schema.IndustryTrend) {
	for _, it := range industries {
		switch {
		case it.CAGR > 0:
			growing = append(growing, it)
		case it.CAGR < 0:
			declining = append(declining, it)
		}
	}

	sort.SliceStable(growing, func(i, j int) bool {
		if growing[i].CAGR != growing[j].CAGR {
			return growing[i].CAGR > growing[j].CAGR
		}
		return growing[i].Code < growing[j].Code
	})
	sort.SliceStable(declining, func(i, j int) bool {
		if declining[i].CAGR != declining[j].CAGR {
			return declining[i].CAGR < declining[j].CAGR
		}
		return declining[i].Code < declining[j].Code
	})

	if len(growing) > limit {
		growing = growing[:limit]
	}
	if len(declining) > limit {
		declining = declining[:limit]
	}
	return growing, declining
}
