// Package iostore persists observations and snapshots in SQL databases.
package iostore

import (
	"sync"

	"github.com/huangsam/geotrend/internal/contract"
)

// StoreManager manages the observation and snapshot stores.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	observations contract.ObservationStore
	snapshots    contract.SnapshotStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// NewStoreManager wraps already opened stores.
func NewStoreManager(observations contract.ObservationStore, snapshots contract.SnapshotStore) *StoreManager {
	return &StoreManager{observations: observations, snapshots: snapshots}
}

// GetObservationStore returns the observation store.
func (mgr *StoreManager) GetObservationStore() contract.ObservationStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.observations
}

// GetSnapshotStore returns the snapshot store.
func (mgr *StoreManager) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshots
}
