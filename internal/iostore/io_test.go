package iostore

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/geotrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestImportObservationsCSV(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	input := `geo_id,metric_code,period,value,metric_name
06075,pop_total,2023,808000,Total population
06075,POP_TOTAL,2024,810000
06075, EMP_54 ,2024,1300,Professional services
`
	n, err := ImportObservationsCSV(ctx, store, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	points, err := store.FetchObservations(ctx, "06075", schema.PopulationMetric, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, []schema.TimeSeriesPoint{{Period: 2023, Value: 808000}, {Period: 2024, Value: 810000}}, points)

	name, err := store.MetricName(ctx, "EMP_54")
	require.NoError(t, err)
	assert.Equal(t, "Professional services", name)
}

func TestImportObservationsCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty input", "", "no observations"},
		{"header only", "geo_id,metric_code,period,value\n", "no observations"},
		{"too few fields", "06075,POP_TOTAL,2024\n", "line 1"},
		{"bad period", "06075,POP_TOTAL,twenty,1\n", "invalid period"},
		{"bad value", "06075,POP_TOTAL,2024,abc\n", "invalid value"},
		{"non-finite value", "06075,POP_TOTAL,2024,NaN\n", "finite"},
		{"empty geo", ",POP_TOTAL,2024,1\n", "geo_id cannot be empty"},
		{"bad row after good row", "06075,POP_TOTAL,2024,1\n06075,,2024,1\n", "line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockObservationStore{}
			_, err := ImportObservationsCSV(context.Background(), store, strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			store.AssertNotCalled(t, "UpsertObservations", mock.Anything, mock.Anything)
		})
	}
}

func TestImportObservationsCSV_StoreError(t *testing.T) {
	store := &MockObservationStore{}
	store.On("UpsertObservations", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := ImportObservationsCSV(context.Background(), store, strings.NewReader("06075,POP_TOTAL,2024,1\n"))
	assert.ErrorContains(t, err, "disk full")
	store.AssertExpectations(t)
}

func TestExecuteExport(t *testing.T) {
	store := newMemoryStore(t)
	seedObservations(t, store)
	require.NoError(t, store.UpsertSnapshot(context.Background(), sampleSnapshot()))

	outputFile := filepath.Join(t.TempDir(), "geotrend")
	var out bytes.Buffer
	err := ExecuteExport(context.Background(), NewStoreManager(store, store), outputFile, &out)
	require.NoError(t, err)

	for _, suffix := range []string{".observations.parquet", ".snapshots.parquet"} {
		info, err := os.Stat(outputFile + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Contains(t, out.String(), "Exported 22 observations")
	assert.Contains(t, out.String(), "Exported 1 snapshots")
}

func TestExecuteExport_Errors(t *testing.T) {
	store := newMemoryStore(t)
	mgr := NewStoreManager(store, store)

	err := ExecuteExport(context.Background(), mgr, "", &bytes.Buffer{})
	assert.ErrorContains(t, err, "--output-file is required")

	err = ExecuteExport(context.Background(), mgr, filepath.Join(t.TempDir(), "x"), &bytes.Buffer{})
	assert.ErrorContains(t, err, "no store data")
}

func TestPrintStoreStatus(t *testing.T) {
	var out bytes.Buffer
	PrintStoreStatus(&out, schema.StoreStatus{
		Backend:          "sqlite",
		Connected:        true,
		TotalGeographies: 2,
		TotalSnapshots:   1,
		LatestAsOf:       "2024-12-31",
		OldestAsOf:       "2024-12-31",
		LastUpdateTime:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		TableSizes:       map[string]int64{snapshotsTable: 1, observationsTable: 22},
	})

	text := out.String()
	assert.Contains(t, text, "Store Backend: sqlite")
	assert.Contains(t, text, "Total Geographies: 2")
	assert.Contains(t, text, "Latest As-Of: 2024-12-31")
	assert.Less(t, strings.Index(text, observationsTable), strings.Index(text, snapshotsTable))

	out.Reset()
	PrintStoreStatus(&out, schema.StoreStatus{Backend: "none"})
	assert.NotContains(t, out.String(), "Total Geographies")
}

func TestClearStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "clear.db")
	store, err := NewStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Missing file is not an error
	assert.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))
	assert.Error(t, ClearStore(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearStore(schema.NoneBackend, "", ""))
	assert.Error(t, ClearStore("oracle", "", ""))
}
