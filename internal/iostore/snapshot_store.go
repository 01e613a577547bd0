package iostore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/geotrend/schema"
)

// snapshotColumns lists the columns of geotrend_snapshots in scan and insert order.
var snapshotColumns = []string{
	"geo_id", "as_of",
	"income_per_capita", "hh_income_median", "age_median",
	"net_migration", "migration_rolling_avg", "migration_trend", "migration_confidence",
	"employment_growth_5y", "top_growing_industries", "top_declining_industries",
	"projection_10y", "updated_at",
}

// UpsertSnapshot inserts or replaces the snapshot keyed by (geo_id, as_of).
func (s *SQLStore) UpsertSnapshot(ctx context.Context, snapshot schema.SnapshotMetrics) error {
	if s.disabled() {
		return nil
	}

	growing, err := marshalIndustries(snapshot.TopGrowingIndustries)
	if err != nil {
		return err
	}
	declining, err := marshalIndustries(snapshot.TopDecliningIndustries)
	if err != nil {
		return err
	}
	projection, err := json.Marshal(snapshot.Projection10y)
	if err != nil {
		return fmt.Errorf("failed to marshal projection: %w", err)
	}

	args := []any{
		snapshot.GeoID, snapshot.AsOfKey(),
		floatPtrArg(snapshot.IncomePerCapita), floatPtrArg(snapshot.HHIncomeMedian), floatPtrArg(snapshot.AgeMedian),
		snapshot.NetMigration, snapshot.MigrationRollingAvg, string(snapshot.MigrationTrend), string(snapshot.MigrationConfidence),
		floatPtrArg(snapshot.EmploymentGrowth5y), growing, declining,
		string(projection), s.now().Unix(),
	}

	if _, err := s.db.ExecContext(ctx, s.getSnapshotUpsertQuery(), args...); err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

// getSnapshotUpsertQuery returns the UPSERT query for the backend.
func (s *SQLStore) getSnapshotUpsertQuery() string {
	quotedTableName := quoteTableName(snapshotsTable, s.backend)
	columns := strings.Join(snapshotColumns, ", ")
	values := placeholders(s.backend, len(snapshotColumns))

	updates := make([]string, 0, len(snapshotColumns)-2)
	for _, col := range snapshotColumns[2:] {
		switch s.backend {
		case schema.MySQLBackend:
			updates = append(updates, fmt.Sprintf("%s = new.%s", col, col))
		default:
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}

	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) AS new
			ON DUPLICATE KEY UPDATE %s`, quotedTableName, columns, values, strings.Join(updates, ", "))
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)
			ON CONFLICT (geo_id, as_of) DO UPDATE SET %s`, quotedTableName, columns, values, strings.Join(updates, ", "))
	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (%s)`, quotedTableName, columns, values)
	}
}

// GetSnapshot returns the snapshot of a geography at an as-of date.
// It returns ErrSnapshotNotFound when there is none.
func (s *SQLStore) GetSnapshot(ctx context.Context, geoID string, asOf time.Time) (schema.SnapshotMetrics, error) {
	if s.disabled() {
		return schema.SnapshotMetrics{}, ErrSnapshotNotFound
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE geo_id = %s AND as_of = %s",
		strings.Join(snapshotColumns, ", "), quoteTableName(snapshotsTable, s.backend),
		placeholder(s.backend, 1), placeholder(s.backend, 2))

	snapshot, err := scanSnapshot(s.db.QueryRowContext(ctx, query, geoID, asOf.Format(schema.AsOfLayout)))
	if errors.Is(err, sql.ErrNoRows) {
		return schema.SnapshotMetrics{}, ErrSnapshotNotFound
	}
	return snapshot, err
}

// ListSnapshots returns all snapshots at an as-of date, ordered by geo_id.
func (s *SQLStore) ListSnapshots(ctx context.Context, asOf time.Time) ([]schema.SnapshotMetrics, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE as_of = %s ORDER BY geo_id",
		strings.Join(snapshotColumns, ", "), quoteTableName(snapshotsTable, s.backend), placeholder(s.backend, 1))
	return s.querySnapshots(ctx, query, asOf.Format(schema.AsOfLayout))
}

// GetAllSnapshots returns every snapshot, ordered by as_of then geo_id.
func (s *SQLStore) GetAllSnapshots(ctx context.Context) ([]schema.SnapshotMetrics, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY as_of, geo_id",
		strings.Join(snapshotColumns, ", "), quoteTableName(snapshotsTable, s.backend))
	return s.querySnapshots(ctx, query)
}

func (s *SQLStore) querySnapshots(ctx context.Context, query string, args ...any) ([]schema.SnapshotMetrics, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []schema.SnapshotMetrics
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return snapshots, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (schema.SnapshotMetrics, error) {
	var (
		snapshot                      schema.SnapshotMetrics
		asOf, trend, confidence       string
		incomePerCapita, hhIncome     sql.NullFloat64
		ageMedian, employmentGrowth   sql.NullFloat64
		growing, declining, projected string
		updatedAt                     int64
	)

	err := row.Scan(
		&snapshot.GeoID, &asOf,
		&incomePerCapita, &hhIncome, &ageMedian,
		&snapshot.NetMigration, &snapshot.MigrationRollingAvg, &trend, &confidence,
		&employmentGrowth, &growing, &declining,
		&projected, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return snapshot, err
	}
	if err != nil {
		return snapshot, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	snapshot.AsOf, err = time.Parse(schema.AsOfLayout, strings.TrimSpace(asOf))
	if err != nil {
		return snapshot, fmt.Errorf("failed to parse as_of %q: %w", asOf, err)
	}
	snapshot.IncomePerCapita = nullFloatPtr(incomePerCapita)
	snapshot.HHIncomeMedian = nullFloatPtr(hhIncome)
	snapshot.AgeMedian = nullFloatPtr(ageMedian)
	snapshot.EmploymentGrowth5y = nullFloatPtr(employmentGrowth)
	snapshot.MigrationTrend = schema.MigrationTrend(trend)
	snapshot.MigrationConfidence = schema.Confidence(confidence)

	if snapshot.TopGrowingIndustries, err = unmarshalIndustries(growing); err != nil {
		return snapshot, err
	}
	if snapshot.TopDecliningIndustries, err = unmarshalIndustries(declining); err != nil {
		return snapshot, err
	}
	if err := json.Unmarshal([]byte(projected), &snapshot.Projection10y); err != nil {
		return snapshot, fmt.Errorf("failed to unmarshal projection: %w", err)
	}
	return snapshot, nil
}

// marshalIndustries encodes an industry list, storing nil as an empty array.
func marshalIndustries(industries []schema.IndustryTrend) (string, error) {
	if industries == nil {
		industries = []schema.IndustryTrend{}
	}
	data, err := json.Marshal(industries)
	if err != nil {
		return "", fmt.Errorf("failed to marshal industries: %w", err)
	}
	return string(data), nil
}

// unmarshalIndustries decodes an industry list, returning nil for an empty array.
func unmarshalIndustries(data string) ([]schema.IndustryTrend, error) {
	var industries []schema.IndustryTrend
	if err := json.Unmarshal([]byte(data), &industries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal industries: %w", err)
	}
	if len(industries) == 0 {
		return nil, nil
	}
	return industries, nil
}

// GetStatus returns status information about the store.
func (s *SQLStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.disabled() {
		return status, nil
	}

	observations := quoteTableName(observationsTable, s.backend)
	snapshots := quoteTableName(snapshotsTable, s.backend)

	row := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(DISTINCT geo_id) FROM %s", observations))
	if err := row.Scan(&status.TotalGeographies); err != nil {
		return status, fmt.Errorf("failed to get total geographies: %w", err)
	}

	row = s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", snapshots))
	if err := row.Scan(&status.TotalSnapshots); err != nil {
		return status, fmt.Errorf("failed to get total snapshots: %w", err)
	}

	if status.TotalSnapshots > 0 {
		var latest, oldest sql.NullString
		var updated sql.NullInt64
		row = s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT MAX(as_of), MIN(as_of), MAX(updated_at) FROM %s", snapshots))
		if err := row.Scan(&latest, &oldest, &updated); err != nil {
			return status, fmt.Errorf("failed to get snapshot range: %w", err)
		}
		status.LatestAsOf = strings.TrimSpace(latest.String)
		status.OldestAsOf = strings.TrimSpace(oldest.String)
		if updated.Valid {
			status.LastUpdateTime = time.Unix(updated.Int64, 0)
		}
	}

	for _, table := range []string{observationsTable, snapshotsTable} {
		var count int64
		row = s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	status.DatabaseSizeBytes = s.databaseSize(ctx)
	return status, nil
}

// databaseSize estimates the on-disk size of the store tables, or 0 when unknown.
func (s *SQLStore) databaseSize(ctx context.Context) int64 {
	var size sql.NullInt64
	switch s.backend {
	case schema.SQLiteBackend:
		row := s.db.QueryRowContext(ctx, "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return 0
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(s.connStr)
		if err != nil || cfg.DBName == "" {
			return 0
		}
		row := s.db.QueryRowContext(ctx,
			"SELECT SUM(data_length + index_length) FROM information_schema.tables WHERE table_schema = ? AND table_name IN (?, ?)",
			cfg.DBName, observationsTable, snapshotsTable)
		if err := row.Scan(&size); err != nil {
			return 0
		}
	case schema.PostgreSQLBackend:
		row := s.db.QueryRowContext(ctx, "SELECT pg_total_relation_size($1) + pg_total_relation_size($2)", observationsTable, snapshotsTable)
		if err := row.Scan(&size); err != nil {
			return 0
		}
	}
	return size.Int64
}
