package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/geotrend/core/algo"
	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/schema"
)

// Aggregator builds and persists snapshots from observation series.
type Aggregator struct {
	observations  contract.ObservationReader
	snapshots     contract.SnapshotWriter
	industries    contract.IndustryTrendSource // optional
	lookbackYears int
}

// NewAggregator creates an aggregator. industries may be nil, in which case
// snapshots carry no employment figures. A non-positive lookback uses the default.
func NewAggregator(observations contract.ObservationReader, snapshots contract.SnapshotWriter, industries contract.IndustryTrendSource, lookbackYears int) *Aggregator {
	if lookbackYears <= 0 {
		lookbackYears = contract.DefaultLookbackYears
	}
	return &Aggregator{
		observations:  observations,
		snapshots:     snapshots,
		industries:    industries,
		lookbackYears: lookbackYears,
	}
}

// snapshotSeries holds the fetched history of every snapshot metric.
type snapshotSeries map[schema.MetricCode][]schema.TimeSeriesPoint

func (s snapshotSeries) latest(metric schema.MetricCode) *float64 {
	if v, ok := schema.LatestValue(s[metric]); ok {
		return schema.Float64Ptr(v)
	}
	return nil
}

// BuildSnapshot assembles the snapshot of one geography at an as-of date without persisting it.
// A read failure aborts the geography. Series too short to forecast fall back to neutral values.
func (a *Aggregator) BuildSnapshot(ctx context.Context, geoID string, asOf time.Time) (schema.SnapshotMetrics, error) {
	asOf = contract.TruncateToDate(asOf)
	year := asOf.Year()

	series := make(snapshotSeries, len(schema.SnapshotMetricCodes))
	for _, metric := range schema.SnapshotMetricCodes {
		points, err := a.observations.FetchObservations(ctx, geoID, metric, year, a.lookbackYears)
		if err != nil {
			return schema.SnapshotMetrics{}, fmt.Errorf("fetch %s for %s: %w", metric, geoID, err)
		}
		series[metric] = points
	}

	signal := algo.AnalyzeMigrationSignal(schema.MigrationPointsOf(series[schema.NetMigrationMetric]), year)

	projections := GenerateProjections(
		series[schema.HHIncomeMedianMetric],
		series[schema.PopulationMetric],
		series[schema.AgeMedianMetric],
	)
	logProjectionFallbacks(geoID, projections)

	snapshot := schema.SnapshotMetrics{
		GeoID:               geoID,
		AsOf:                asOf,
		IncomePerCapita:     series.latest(schema.IncomePerCapitaMetric),
		HHIncomeMedian:      series.latest(schema.HHIncomeMedianMetric),
		AgeMedian:           series.latest(schema.AgeMedianMetric),
		NetMigration:        signal.NetMigration,
		MigrationRollingAvg: signal.RollingAverage,
		MigrationTrend:      signal.Trend,
		MigrationConfidence: signal.Confidence,
		Projection10y: FormatProjectionForAPI(projections, CurrentValues{
			HHIncome:   series.latest(schema.HHIncomeMedianMetric),
			Population: series.latest(schema.PopulationMetric),
		}),
	}

	if a.industries != nil {
		trends, err := a.industries.IndustryTrends(ctx, geoID, year)
		if err != nil {
			contract.GeoLogger(geoID).WithError(err).Warn("industry trends unavailable")
		} else {
			snapshot.EmploymentGrowth5y = trends.EmploymentGrowth5y
			snapshot.TopGrowingIndustries = trends.TopGrowing
			snapshot.TopDecliningIndustries = trends.TopDeclining
		}
	}

	return snapshot, nil
}

// Run builds and upserts a snapshot for every geography in order.
// A failing geography is logged and reported without stopping the batch.
func (a *Aggregator) Run(ctx context.Context, geoIDs []string, asOf time.Time) schema.BatchReport {
	report := schema.BatchReport{AsOf: contract.TruncateToDate(asOf)}

	for _, geoID := range geoIDs {
		log := contract.GeoLogger(geoID)
		if err := ctx.Err(); err != nil {
			report.Failures = append(report.Failures, schema.GeoFailure{GeoID: geoID, Error: err.Error()})
			continue
		}

		snapshot, err := a.BuildSnapshot(ctx, geoID, report.AsOf)
		if err == nil {
			err = a.snapshots.UpsertSnapshot(ctx, snapshot)
			if err != nil {
				err = fmt.Errorf("upsert snapshot for %s: %w", geoID, err)
			}
		}
		if err != nil {
			log.WithError(err).Error("skipping geography")
			report.Failures = append(report.Failures, schema.GeoFailure{GeoID: geoID, Error: err.Error()})
			continue
		}

		log.Debug("snapshot stored")
		report.Snapshots = append(report.Snapshots, snapshot)
	}

	return report
}

func logProjectionFallbacks(geoID string, p Projections) {
	log := contract.GeoLogger(geoID)
	for name, s := range map[string]SeriesProjection{
		"income":     p.Income,
		"population": p.Population,
		"age":        p.Age,
	} {
		if s.Err != nil {
			log.WithField("series", name).WithError(s.Err).Debug("projection fallback")
		}
	}
}
