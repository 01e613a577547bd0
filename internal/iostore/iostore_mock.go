package iostore

import (
	"context"
	"time"

	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetObservationStore implements the StoreManager interface.
func (m *MockStoreManager) GetObservationStore() contract.ObservationStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ObservationStore)
	return store
}

// GetSnapshotStore implements the StoreManager interface.
func (m *MockStoreManager) GetSnapshotStore() contract.SnapshotStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SnapshotStore)
	return store
}

// MockObservationStore is a mock implementation of ObservationStore for testing.
type MockObservationStore struct {
	mock.Mock
}

var _ contract.ObservationStore = &MockObservationStore{} // Compile-time check

// FetchObservations implements the ObservationReader interface.
func (m *MockObservationStore) FetchObservations(ctx context.Context, geoID string, metric schema.MetricCode, asOfYear, lookbackYears int) ([]schema.TimeSeriesPoint, error) {
	args := m.Called(ctx, geoID, metric, asOfYear, lookbackYears)
	points, _ := args.Get(0).([]schema.TimeSeriesPoint)
	return points, args.Error(1)
}

// UpsertObservations implements the ObservationStore interface.
func (m *MockObservationStore) UpsertObservations(ctx context.Context, records []schema.ObservationRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

// ListGeoIDs implements the ObservationStore interface.
func (m *MockObservationStore) ListGeoIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

// ListMetricCodes implements the ObservationStore interface.
func (m *MockObservationStore) ListMetricCodes(ctx context.Context, geoID, prefix string) ([]schema.MetricCode, error) {
	args := m.Called(ctx, geoID, prefix)
	codes, _ := args.Get(0).([]schema.MetricCode)
	return codes, args.Error(1)
}

// MetricName implements the ObservationStore interface.
func (m *MockObservationStore) MetricName(ctx context.Context, metric schema.MetricCode) (string, error) {
	args := m.Called(ctx, metric)
	return args.String(0), args.Error(1)
}

// GetAllObservations implements the ObservationStore interface.
func (m *MockObservationStore) GetAllObservations(ctx context.Context) ([]schema.ObservationRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.ObservationRecord)
	return records, args.Error(1)
}

// MockSnapshotStore is a mock implementation of SnapshotStore for testing.
type MockSnapshotStore struct {
	mock.Mock
}

var _ contract.SnapshotStore = &MockSnapshotStore{} // Compile-time check

// UpsertSnapshot implements the SnapshotWriter interface.
func (m *MockSnapshotStore) UpsertSnapshot(ctx context.Context, snapshot schema.SnapshotMetrics) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// GetSnapshot implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetSnapshot(ctx context.Context, geoID string, asOf time.Time) (schema.SnapshotMetrics, error) {
	args := m.Called(ctx, geoID, asOf)
	snapshot, _ := args.Get(0).(schema.SnapshotMetrics)
	return snapshot, args.Error(1)
}

// ListSnapshots implements the SnapshotStore interface.
func (m *MockSnapshotStore) ListSnapshots(ctx context.Context, asOf time.Time) ([]schema.SnapshotMetrics, error) {
	args := m.Called(ctx, asOf)
	snapshots, _ := args.Get(0).([]schema.SnapshotMetrics)
	return snapshots, args.Error(1)
}

// GetAllSnapshots implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetAllSnapshots(ctx context.Context) ([]schema.SnapshotMetrics, error) {
	args := m.Called(ctx)
	snapshots, _ := args.Get(0).([]schema.SnapshotMetrics)
	return snapshots, args.Error(1)
}

// GetStatus implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	status, _ := args.Get(0).(schema.StoreStatus)
	return status, args.Error(1)
}
