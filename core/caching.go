package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/learnstat/internal/contract"
	"github.com/huangsam/learnstat/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cachedGetPeriodStats fetches stats through the fetch cache when one is configured.
func cachedGetPeriodStats(ctx context.Context, cfg *contract.Config, client contract.StatsClient, mgr contract.CacheManager, req schema.DashboardRequest) (*schema.PeriodStats, error) {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetFetchStore()
	}
	if store == nil {
		// Fallback to a direct fetch
		return client.GetPeriodStats(ctx, req.SessionID, req.StartDate, req.EndDate)
	}

	key := generateCacheKey(ctx, client, req)

	// Check for cache hit
	if !shouldSkipCache(ctx) {
		if result := checkCacheHit(store, key, cfg.CacheTTL, time.Now()); result != nil {
			return result, nil
		}
	}

	// Cache miss: fetch and store
	return fetchAndStore(ctx, client, store, key, req)
}

// checkCacheHit attempts to retrieve and validate a cached result.
// A non-positive ttl disables reads.
func checkCacheHit(store contract.CacheStore, key string, ttl time.Duration, now time.Time) *schema.PeriodStats {
	if ttl <= 0 {
		return nil
	}

	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion {
		return nil
	}
	if now.Sub(time.Unix(ts, 0)) > ttl {
		return nil
	}

	var result schema.PeriodStats
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return &result // Cache hit
}

// fetchAndStore fetches the stats and stores resolved results in the cache.
func fetchAndStore(ctx context.Context, client contract.StatsClient, store contract.CacheStore, key string, req schema.DashboardRequest) (*schema.PeriodStats, error) {
	result, err := client.GetPeriodStats(ctx, req.SessionID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil // Pending results are never cached
	}

	data, err := json.Marshal(result)
	if err != nil {
		contract.LogWarn("Failed to encode stats for cache", err)
		return result, nil
	}
	if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Failed to write stats cache", err)
	}
	return result, nil
}

// generateCacheKey creates a unique key based on the stats source, its contents and the request window.
func generateCacheKey(ctx context.Context, client contract.StatsClient, req schema.DashboardRequest) string {
	source, location := client.Source()

	// Include the content hash to invalidate cache when the source changes
	contentHash, err := client.GetContentHash(ctx)
	if err != nil {
		contentHash = ""
	}

	raw := fmt.Sprintf("%s:%s:%s:%s:%s:%s", source, location, req.SessionID, req.StartDate, req.EndDate, contentHash)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(raw)))
}
