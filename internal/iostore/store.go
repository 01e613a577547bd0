package iostore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/schema"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for observations and snapshots.
const (
	observationsTable = "geotrend_observations"
	snapshotsTable    = "geotrend_snapshots"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a (geo_id, as_of) key.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SQLStore implements the observation and snapshot stores on one database.
// The none backend keeps db nil and turns every operation into a no-op.
type SQLStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
	now     func() time.Time
}

var (
	_ contract.ObservationStore = &SQLStore{} // Compile-time check
	_ contract.SnapshotStore    = &SQLStore{} // Compile-time check
)

// NewStore opens the database for the backend and creates the tables if needed.
func NewStore(backend schema.DatabaseBackend, connStr string) (*SQLStore, error) {
	if backend == schema.NoneBackend {
		return &SQLStore{backend: backend, connStr: connStr, now: time.Now}, nil
	}
	for _, table := range []string{observationsTable, snapshotsTable} {
		if err := validateTableName(table); err != nil {
			return nil, err
		}
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := createTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create store tables: %w", err)
	}

	return &SQLStore{db: db, backend: backend, connStr: connStr, now: time.Now}, nil
}

// Backend returns the configured backend.
func (s *SQLStore) Backend() schema.DatabaseBackend {
	return s.backend
}

// disabled reports whether the store has no database behind it.
func (s *SQLStore) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// Close closes the underlying connection.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// createTables creates the observation and snapshot tables.
func createTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{observationsTable, getCreateObservationsQuery(backend)},
		{snapshotsTable, getCreateSnapshotsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateObservationsQuery returns the CREATE TABLE query for geotrend_observations.
func getCreateObservationsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(observationsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				geo_id VARCHAR(64) NOT NULL,
				metric_code VARCHAR(64) NOT NULL,
				period INT NOT NULL,
				value DOUBLE NOT NULL,
				metric_name VARCHAR(255) NOT NULL DEFAULT '',
				PRIMARY KEY (geo_id, metric_code, period)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				geo_id TEXT NOT NULL,
				metric_code TEXT NOT NULL,
				period INTEGER NOT NULL,
				value DOUBLE PRECISION NOT NULL,
				metric_name TEXT NOT NULL DEFAULT '',
				PRIMARY KEY (geo_id, metric_code, period)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				geo_id TEXT NOT NULL,
				metric_code TEXT NOT NULL,
				period INTEGER NOT NULL,
				value REAL NOT NULL,
				metric_name TEXT NOT NULL DEFAULT '',
				PRIMARY KEY (geo_id, metric_code, period)
			);
		`, quotedTableName)
	}
}

// getCreateSnapshotsQuery returns the CREATE TABLE query for geotrend_snapshots.
func getCreateSnapshotsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(snapshotsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				geo_id VARCHAR(64) NOT NULL,
				as_of CHAR(10) NOT NULL,
				income_per_capita DOUBLE NULL,
				hh_income_median DOUBLE NULL,
				age_median DOUBLE NULL,
				net_migration DOUBLE NOT NULL,
				migration_rolling_avg DOUBLE NOT NULL,
				migration_trend VARCHAR(16) NOT NULL,
				migration_confidence VARCHAR(16) NOT NULL,
				employment_growth_5y DOUBLE NULL,
				top_growing_industries TEXT NOT NULL,
				top_declining_industries TEXT NOT NULL,
				projection_10y TEXT NOT NULL,
				updated_at BIGINT NOT NULL,
				PRIMARY KEY (geo_id, as_of)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				geo_id TEXT NOT NULL,
				as_of CHAR(10) NOT NULL,
				income_per_capita DOUBLE PRECISION,
				hh_income_median DOUBLE PRECISION,
				age_median DOUBLE PRECISION,
				net_migration DOUBLE PRECISION NOT NULL,
				migration_rolling_avg DOUBLE PRECISION NOT NULL,
				migration_trend TEXT NOT NULL,
				migration_confidence TEXT NOT NULL,
				employment_growth_5y DOUBLE PRECISION,
				top_growing_industries TEXT NOT NULL,
				top_declining_industries TEXT NOT NULL,
				projection_10y TEXT NOT NULL,
				updated_at BIGINT NOT NULL,
				PRIMARY KEY (geo_id, as_of)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				geo_id TEXT NOT NULL,
				as_of TEXT NOT NULL,
				income_per_capita REAL,
				hh_income_median REAL,
				age_median REAL,
				net_migration REAL NOT NULL,
				migration_rolling_avg REAL NOT NULL,
				migration_trend TEXT NOT NULL,
				migration_confidence TEXT NOT NULL,
				employment_growth_5y REAL,
				top_growing_industries TEXT NOT NULL,
				top_declining_industries TEXT NOT NULL,
				projection_10y TEXT NOT NULL,
				updated_at INTEGER NOT NULL,
				PRIMARY KEY (geo_id, as_of)
			);
		`, quotedTableName)
	}
}
