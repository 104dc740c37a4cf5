// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/learnstat/schema"
)

// StatsClient defines the stats-fetch collaborator that feeds the aggregation engine.
// This allows the dashboard logic to be tested without a real stats source.
type StatsClient interface {
	// GetPeriodStats returns the raw per-day records for a session and an inclusive
	// date window. A nil result with a nil error means the source has not resolved yet.
	GetPeriodStats(ctx context.Context, sessionID, startDate, endDate string) (*schema.PeriodStats, error)

	// Source identifies the client kind and location, used for cache keys.
	Source() (schema.StatsSource, string)

	// GetContentHash fingerprints the current source contents so cached stats are
	// invalidated when they change. An empty hash means the source cannot tell.
	GetContentHash(ctx context.Context) (string, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetFetchStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore defines the interface for tracking dashboard runs and the points they produced.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// RecordDayPoint stores one normalized point produced by the run
	RecordDayPoint(runID int64, sessionID string, point schema.NormalizedDayPoint) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalDays int, means schema.RollingMeans) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every tracked run
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllDayPoints returns every recorded day point
	GetAllDayPoints() ([]schema.DayPointRecord, error)

	// Close closes the underlying connection
	Close() error
}
