package iostore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/schema"
)

// importHeader is the optional first row of an observation CSV.
var importHeader = []string{"geo_id", "metric_code", "period", "value", "metric_name"}

// ImportObservationsCSV reads rows of geo_id,metric_code,period,value[,metric_name]
// and upserts them. A leading header row is skipped. The whole file is rejected
// when any row is malformed.
func ImportObservationsCSV(ctx context.Context, store contract.ObservationStore, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records []schema.ObservationRecord
	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read CSV: %w", err)
		}
		if line == 1 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), importHeader[0]) {
			continue
		}
		record, err := parseObservationRow(row)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return 0, errors.New("no observations found in input")
	}
	if err := store.UpsertObservations(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

func parseObservationRow(row []string) (schema.ObservationRecord, error) {
	if len(row) < 4 || len(row) > len(importHeader) {
		return schema.ObservationRecord{}, fmt.Errorf("expected 4 or 5 fields, got %d", len(row))
	}

	geoID := strings.TrimSpace(row[0])
	if geoID == "" {
		return schema.ObservationRecord{}, errors.New("geo_id cannot be empty")
	}
	code := strings.ToUpper(strings.TrimSpace(row[1]))
	if code == "" {
		return schema.ObservationRecord{}, errors.New("metric_code cannot be empty")
	}
	period, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return schema.ObservationRecord{}, fmt.Errorf("invalid period %q: %w", row[2], err)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return schema.ObservationRecord{}, fmt.Errorf("invalid value %q: %w", row[3], err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return schema.ObservationRecord{}, fmt.Errorf("value must be finite, got %q", row[3])
	}

	record := schema.ObservationRecord{
		GeoID:      geoID,
		MetricCode: schema.MetricCode(code),
		Period:     period,
		Value:      value,
	}
	if len(row) == len(importHeader) {
		record.MetricName = strings.TrimSpace(row[4])
	}
	return record, nil
}
