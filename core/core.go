// Package core has core logic for snapshots, projections and comparisons.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/geotrend/core/algo"
	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/internal/employment"
	"github.com/huangsam/geotrend/schema"
)

// ErrNoGeographies is returned when a batch has nothing to process.
var ErrNoGeographies = errors.New("no geographies to process")

// ExecutorFunc defines the function signature for executing store-backed commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter) error

// ExecuteSnapshotBuild builds and stores snapshots for the configured geographies,
// or for every geography in the store when none are given.
func ExecuteSnapshotBuild(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter) error {
	start := time.Now()
	observations := mgr.GetObservationStore()

	geoIDs := cfg.GeoIDs
	if len(geoIDs) == 0 {
		ids, err := observations.ListGeoIDs(ctx)
		if err != nil {
			return fmt.Errorf("list geographies: %w", err)
		}
		geoIDs = ids
	}
	if len(geoIDs) == 0 {
		return ErrNoGeographies
	}

	contract.Logger.WithField("count", len(geoIDs)).WithField("asof", cfg.AsOf.Format(contract.DateFormat)).Info("building snapshots")

	industries := employment.NewTrendSource(observations, cfg.LookbackYears)
	agg := NewAggregator(observations, mgr.GetSnapshotStore(), industries, cfg.LookbackYears)
	report := agg.Run(ctx, geoIDs, cfg.AsOf)

	if err := w.WriteBatchReport(report, cfg, time.Since(start)); err != nil {
		return err
	}
	if len(report.Snapshots) == 0 {
		return fmt.Errorf("all %d geographies failed", len(report.Failures))
	}
	return nil
}

// ExecuteSnapshotShow prints the stored snapshots of the configured geographies.
func ExecuteSnapshotShow(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter) error {
	snapshots, err := loadSnapshots(ctx, cfg, mgr.GetSnapshotStore())
	if err != nil {
		return err
	}
	return w.WriteSnapshots(snapshots, cfg)
}

// ExecuteSnapshotCompare compares the stored snapshots of several geographies
// against the first one.
func ExecuteSnapshotCompare(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter) error {
	if len(cfg.GeoIDs) < 2 {
		return errors.New("compare requires at least two geographies")
	}
	snapshots, err := loadSnapshots(ctx, cfg, mgr.GetSnapshotStore())
	if err != nil {
		return err
	}
	return w.WriteComparison(compareSnapshots(snapshots[0], snapshots[1:], cfg.AsOf), cfg)
}

// ExecuteForecast forecasts the configured metric of a single geography.
func ExecuteForecast(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter) error {
	if len(cfg.GeoIDs) != 1 {
		return errors.New("forecast requires exactly one geography")
	}
	geoID := cfg.GeoIDs[0]
	observations := mgr.GetObservationStore()

	history, err := observations.FetchObservations(ctx, geoID, cfg.Metric, cfg.AsOfYear(), cfg.LookbackYears)
	if err != nil {
		return fmt.Errorf("fetch %s for %s: %w", cfg.Metric, geoID, err)
	}

	opts := algo.ForecastOptions{Periods: cfg.Periods, Alpha: cfg.Alpha, Beta: cfg.Beta}
	projection, err := algo.HoltWintersForecast(history, opts)
	if err != nil {
		return fmt.Errorf("forecast %s for %s: %w", cfg.Metric, geoID, err)
	}

	name, err := observations.MetricName(ctx, cfg.Metric)
	if err != nil {
		contract.LogWarn("metric name lookup failed", err)
	}

	last := history[len(history)-1].Period
	for _, p := range history {
		last = max(last, p.Period)
	}
	years := make([]int, cfg.Periods)
	for i := range years {
		years[i] = last + i + 1
	}

	return w.WriteForecast(schema.ForecastResult{
		GeoID:         geoID,
		Metric:        cfg.Metric,
		MetricName:    name,
		History:       history,
		ForecastYears: years,
		Projection:    projection,
		CAGR:          algo.CAGRFromSeries(history),
	}, cfg)
}

// ExecuteMigration analyzes the net migration signal of a single geography at the configured year.
func ExecuteMigration(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, w contract.ResultWriter) error {
	if len(cfg.GeoIDs) != 1 {
		return errors.New("migration requires exactly one geography")
	}
	geoID := cfg.GeoIDs[0]

	points, err := mgr.GetObservationStore().FetchObservations(ctx, geoID, schema.NetMigrationMetric, cfg.Year, cfg.LookbackYears)
	if err != nil {
		return fmt.Errorf("fetch %s for %s: %w", schema.NetMigrationMetric, geoID, err)
	}

	history := schema.MigrationPointsOf(points)
	signal := algo.AnalyzeMigrationSignal(history, cfg.Year)
	return w.WriteMigration(schema.MigrationResult{
		GeoID:       geoID,
		Year:        cfg.Year,
		Signal:      signal,
		Description: algo.GenerateMigrationDescription(signal),
		History:     history,
	}, cfg)
}

// ExecuteCAGR computes a growth rate from explicit values. It needs no store.
func ExecuteCAGR(cfg *contract.Config, w contract.ResultWriter, start, end float64, years int) error {
	return w.WriteCAGR(SummarizeCAGR(start, end, years), cfg)
}

// SummarizeCAGR computes a growth rate with its classification and display form.
func SummarizeCAGR(start, end float64, years int) schema.CAGRSummary {
	result := algo.CalculateCAGRWithMetadata(start, end, years)
	return schema.CAGRSummary{
		CAGRResult: result,
		Trend:      algo.ClassifyGrowthTrend(result.CAGR),
		Formatted:  algo.FormatCAGR(result.CAGR),
	}
}

// loadSnapshots reads the snapshots of the configured geographies in order.
func loadSnapshots(ctx context.Context, cfg *contract.Config, store contract.SnapshotStore) ([]schema.SnapshotMetrics, error) {
	if len(cfg.GeoIDs) == 0 {
		snapshots, err := store.ListSnapshots(ctx, cfg.AsOf)
		if err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		return snapshots, nil
	}

	snapshots := make([]schema.SnapshotMetrics, 0, len(cfg.GeoIDs))
	for _, geoID := range cfg.GeoIDs {
		snapshot, err := store.GetSnapshot(ctx, geoID, cfg.AsOf)
		if err != nil {
			return nil, fmt.Errorf("get snapshot for %s at %s: %w", geoID, cfg.AsOf.Format(contract.DateFormat), err)
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}
