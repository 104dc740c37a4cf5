// Package iocache is for caching stats fetches and tracking dashboard runs.
package iocache

import (
	"sync"

	"github.com/huangsam/learnstat/internal/contract"
)

// CacheStoreManager manages the fetch cache and run history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	fetch        contract.CacheStore
	runs         contract.RunStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// NewCacheStoreManager returns a manager over already-open stores. Either may be nil.
func NewCacheStoreManager(fetch contract.CacheStore, runs contract.RunStore) *CacheStoreManager {
	return &CacheStoreManager{fetch: fetch, runs: runs}
}

// GetFetchStore returns the fetch CacheStore.
func (mgr *CacheStoreManager) GetFetchStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.fetch
}

// GetRunStore returns the RunStore.
func (mgr *CacheStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
