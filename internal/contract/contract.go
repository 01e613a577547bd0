// Package contract provides interfaces and shared utilities for geotrend's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/geotrend/schema"
)

// ObservationReader supplies annual observations to the snapshot aggregator.
type ObservationReader interface {
	// FetchObservations returns the points of one metric for one geography whose period
	// falls in (asOfYear-lookbackYears, asOfYear], ordered by ascending period.
	FetchObservations(ctx context.Context, geoID string, metric schema.MetricCode, asOfYear, lookbackYears int) ([]schema.TimeSeriesPoint, error)
}

// SnapshotWriter persists snapshots keyed by (GeoID, AsOf).
// Writing a snapshot for an existing key replaces the previous record.
type SnapshotWriter interface {
	UpsertSnapshot(ctx context.Context, snapshot schema.SnapshotMetrics) error
}

// IndustryTrendSource supplies the employment summary of a geography.
type IndustryTrendSource interface {
	IndustryTrends(ctx context.Context, geoID string, asOfYear int) (schema.IndustryTrends, error)
}

// ObservationStore is the read/write surface of the observation table.
type ObservationStore interface {
	ObservationReader

	// UpsertObservations inserts or replaces observations by (geo_id, metric_code, period).
	UpsertObservations(ctx context.Context, records []schema.ObservationRecord) error

	// ListGeoIDs returns every geography that has observations, sorted.
	ListGeoIDs(ctx context.Context) ([]string, error)

	// ListMetricCodes returns the metric codes of a geography starting with prefix, sorted.
	ListMetricCodes(ctx context.Context, geoID, prefix string) ([]schema.MetricCode, error)

	// MetricName returns the display name recorded for a metric code, or "" when unknown.
	MetricName(ctx context.Context, metric schema.MetricCode) (string, error)

	// GetAllObservations returns every observation, ordered by key.
	GetAllObservations(ctx context.Context) ([]schema.ObservationRecord, error)
}

// SnapshotStore is the read/write surface of the snapshot table.
type SnapshotStore interface {
	SnapshotWriter

	// GetSnapshot returns the snapshot of a geography at an as-of date.
	GetSnapshot(ctx context.Context, geoID string, asOf time.Time) (schema.SnapshotMetrics, error)

	// ListSnapshots returns all snapshots at an as-of date, ordered by geo_id.
	ListSnapshots(ctx context.Context, asOf time.Time) ([]schema.SnapshotMetrics, error)

	// GetAllSnapshots returns every snapshot, ordered by key.
	GetAllSnapshots(ctx context.Context) ([]schema.SnapshotMetrics, error)

	// GetStatus returns status information about the store
	GetStatus(ctx context.Context) (schema.StoreStatus, error)
}

// StoreManager hands out the stores backing a command.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetObservationStore() ObservationStore
	GetSnapshotStore() SnapshotStore
}

// ResultWriter renders command results in the configured output format.
type ResultWriter interface {
	WriteBatchReport(report schema.BatchReport, cfg *Config, duration time.Duration) error
	WriteSnapshots(snapshots []schema.SnapshotMetrics, cfg *Config) error
	WriteComparison(result schema.ComparisonResult, cfg *Config) error
	WriteForecast(result schema.ForecastResult, cfg *Config) error
	WriteMigration(result schema.MigrationResult, cfg *Config) error
	WriteCAGR(result schema.CAGRSummary, cfg *Config) error
}
