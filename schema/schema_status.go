package schema

import "time"

// StoreStatus represents the status of the observation and snapshot store.
type StoreStatus struct {
	Backend           string           `json:"backend"`
	Connected         bool             `json:"connected"`
	TotalGeographies  int              `json:"total_geographies"`
	TotalSnapshots    int              `json:"total_snapshots"`
	LatestAsOf        string           `json:"latest_asof"`
	OldestAsOf        string           `json:"oldest_asof"`
	LastUpdateTime    time.Time        `json:"last_update_time"`
	TableSizes        map[string]int64 `json:"table_sizes"`
	DatabaseSizeBytes int64            `json:"database_size_bytes"`
}
