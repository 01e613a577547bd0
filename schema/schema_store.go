package schema

// ObservationRecord represents a row from the geotrend_observations table.
type ObservationRecord struct {
	GeoID      string     `json:"geo_id"`
	MetricCode MetricCode `json:"metric_code"`
	MetricName string     `json:"metric_name"`
	Period     int        `json:"period"`
	Value      float64    `json:"value"`
}

// Point returns the record as a time series point.
func (r ObservationRecord) Point() TimeSeriesPoint {
	return TimeSeriesPoint{Period: r.Period, Value: r.Value}
}
