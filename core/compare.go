package core

import (
	"time"

	"github.com/huangsam/geotrend/schema"
)

// compareSnapshots computes the deltas of every target against the baseline snapshot.
// Targets keep their input order.
func compareSnapshots(baseline schema.SnapshotMetrics, targets []schema.SnapshotMetrics, asOf time.Time) schema.ComparisonResult {
	details := make([]schema.ComparisonDetail, 0, len(targets))
	for _, target := range targets {
		details = append(details, schema.ComparisonDetail{
			GeoID:                target.GeoID,
			DeltaHHIncome:        schema.DeltaPtr(baseline.HHIncomeMedian, target.HHIncomeMedian),
			DeltaIncomePerCapita: schema.DeltaPtr(baseline.IncomePerCapita, target.IncomePerCapita),
			DeltaAgeMedian:       schema.DeltaPtr(baseline.AgeMedian, target.AgeMedian),
			DeltaNetMigration:    target.MigrationRollingAvg - baseline.MigrationRollingAvg,
			DeltaHHIncomeIdx:     target.Projection10y.HHIncomeIdx - baseline.Projection10y.HHIncomeIdx,
			DeltaPopulationIdx:   target.Projection10y.PopulationIdx - baseline.Projection10y.PopulationIdx,
			SameTopGrowing:       schema.IndustriesEqual(baseline.TopGrowingIndustries, target.TopGrowingIndustries),
			Snapshot:             target,
		})
	}
	return schema.ComparisonResult{
		AsOf:     asOf,
		Baseline: baseline,
		Details:  details,
	}
}
