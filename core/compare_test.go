package core

import (
	"testing"
	"time"

	"github.com/huangsam/geotrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareSnapshots(t *testing.T) {
	asOf := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	baseline := schema.SnapshotMetrics{
		GeoID:               "A",
		HHIncomeMedian:      schema.Float64Ptr(60000),
		IncomePerCapita:     schema.Float64Ptr(30000),
		MigrationRollingAvg: 10,
		Projection10y:       schema.ProjectionIndices{PopulationIdx: 1.1, HHIncomeIdx: 1.2},
		TopGrowingIndustries: []schema.IndustryTrend{
			{Code: "EMP_62", CAGR: 0.04}, {Code: "EMP_23", CAGR: 0.03},
		},
	}
	targets := []schema.SnapshotMetrics{
		{
			GeoID:               "B",
			HHIncomeMedian:      schema.Float64Ptr(75000),
			AgeMedian:           schema.Float64Ptr(40),
			MigrationRollingAvg: -5,
			Projection10y:       schema.ProjectionIndices{PopulationIdx: 1.0, HHIncomeIdx: 1.5},
			TopGrowingIndustries: []schema.IndustryTrend{
				{Code: "EMP_62", CAGR: 0.06}, {Code: "EMP_23", CAGR: 0.01},
			},
		},
		{GeoID: "C", Projection10y: schema.NeutralProjectionIndices()},
	}

	result := compareSnapshots(baseline, targets, asOf)

	assert.Equal(t, asOf, result.AsOf)
	assert.Equal(t, "A", result.Baseline.GeoID)
	require.Len(t, result.Details, 2)

	b := result.Details[0]
	assert.Equal(t, "B", b.GeoID)
	require.NotNil(t, b.DeltaHHIncome)
	assert.Equal(t, 15000.0, *b.DeltaHHIncome)
	assert.Nil(t, b.DeltaIncomePerCapita)
	assert.Nil(t, b.DeltaAgeMedian)
	assert.Equal(t, -15.0, b.DeltaNetMigration)
	assert.InDelta(t, 0.3, b.DeltaHHIncomeIdx, 1e-12)
	assert.InDelta(t, -0.1, b.DeltaPopulationIdx, 1e-12)
	assert.True(t, b.SameTopGrowing)

	c := result.Details[1]
	assert.Equal(t, "C", c.GeoID)
	assert.Nil(t, c.DeltaHHIncome)
	assert.InDelta(t, -0.2, c.DeltaHHIncomeIdx, 1e-12)
	assert.False(t, c.SameTopGrowing)
}
