package iostore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/huangsam/geotrend/schema"
)

// FetchObservations returns the points of a metric whose period falls in
// (asOfYear-lookbackYears, asOfYear], ordered by ascending period.
func (s *SQLStore) FetchObservations(ctx context.Context, geoID string, metric schema.MetricCode, asOfYear, lookbackYears int) ([]schema.TimeSeriesPoint, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT period, value FROM %s
		WHERE geo_id = %s AND metric_code = %s AND period > %s AND period <= %s
		ORDER BY period`,
		quoteTableName(observationsTable, s.backend),
		placeholder(s.backend, 1), placeholder(s.backend, 2), placeholder(s.backend, 3), placeholder(s.backend, 4))

	rows, err := s.db.QueryContext(ctx, query, geoID, string(metric), asOfYear-lookbackYears, asOfYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []schema.TimeSeriesPoint
	for rows.Next() {
		var p schema.TimeSeriesPoint
		if err := rows.Scan(&p.Period, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observations: %w", err)
	}
	return points, nil
}

// UpsertObservations inserts or replaces observations in a single transaction.
func (s *SQLStore) UpsertObservations(ctx context.Context, records []schema.ObservationRecord) error {
	if s.disabled() || len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.getObservationUpsertQuery())
	if err != nil {
		return fmt.Errorf("failed to prepare observation upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.GeoID, string(r.MetricCode), r.Period, r.Value, r.MetricName); err != nil {
			return fmt.Errorf("failed to upsert observation %s/%s/%d: %w", r.GeoID, r.MetricCode, r.Period, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit observations: %w", err)
	}
	return nil
}

// getObservationUpsertQuery returns the UPSERT query for the backend.
func (s *SQLStore) getObservationUpsertQuery() string {
	quotedTableName := quoteTableName(observationsTable, s.backend)
	columns := "geo_id, metric_code, period, value, metric_name"
	values := placeholders(s.backend, 5)

	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) AS new
			ON DUPLICATE KEY UPDATE value = new.value, metric_name = new.metric_name`, quotedTableName, columns, values)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)
			ON CONFLICT (geo_id, metric_code, period) DO UPDATE SET value = EXCLUDED.value, metric_name = EXCLUDED.metric_name`, quotedTableName, columns, values)
	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (%s)`, quotedTableName, columns, values)
	}
}

// ListGeoIDs returns every geography that has observations, sorted.
func (s *SQLStore) ListGeoIDs(ctx context.Context) ([]string, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT DISTINCT geo_id FROM %s ORDER BY geo_id", quoteTableName(observationsTable, s.backend))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query geographies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan geography: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating geographies: %w", err)
	}
	return ids, nil
}

// ListMetricCodes returns the metric codes of a geography starting with prefix, sorted.
func (s *SQLStore) ListMetricCodes(ctx context.Context, geoID, prefix string) ([]schema.MetricCode, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT DISTINCT metric_code FROM %s WHERE geo_id = %s ORDER BY metric_code",
		quoteTableName(observationsTable, s.backend), placeholder(s.backend, 1))
	rows, err := s.db.QueryContext(ctx, query, geoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric codes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var codes []schema.MetricCode
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan metric code: %w", err)
		}
		// Prefix filtering happens here since LIKE treats '_' as a wildcard.
		if strings.HasPrefix(code, prefix) {
			codes = append(codes, schema.MetricCode(code))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metric codes: %w", err)
	}
	return codes, nil
}

// MetricName returns the display name recorded for a metric code, or "" when unknown.
func (s *SQLStore) MetricName(ctx context.Context, metric schema.MetricCode) (string, error) {
	if s.disabled() {
		return "", nil
	}

	query := fmt.Sprintf("SELECT MAX(metric_name) FROM %s WHERE metric_code = %s",
		quoteTableName(observationsTable, s.backend), placeholder(s.backend, 1))
	var name sql.NullString
	if err := s.db.QueryRowContext(ctx, query, string(metric)).Scan(&name); err != nil {
		return "", fmt.Errorf("failed to get metric name: %w", err)
	}
	return name.String, nil
}

// GetAllObservations returns every observation, ordered by key.
func (s *SQLStore) GetAllObservations(ctx context.Context) ([]schema.ObservationRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT geo_id, metric_code, metric_name, period, value FROM %s ORDER BY geo_id, metric_code, period",
		quoteTableName(observationsTable, s.backend))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.ObservationRecord
	for rows.Next() {
		var r schema.ObservationRecord
		var code string
		if err := rows.Scan(&r.GeoID, &code, &r.MetricName, &r.Period, &r.Value); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		r.MetricCode = schema.MetricCode(code)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observations: %w", err)
	}
	return records, nil
}
