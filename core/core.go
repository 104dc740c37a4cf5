// Package core has orchestration logic for fetching, caching, assembling and
// rendering progress dashboards.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/learnstat/internal/contract"
	"github.com/huangsam/learnstat/internal/outwriter"
	"github.com/huangsam/learnstat/schema"
)

// ExecutorFunc defines the function signature for executing different dashboard views.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, client contract.StatsClient, mgr contract.CacheManager) error

// GetDashboardResults resolves the period, fetches stats through the cache, builds the
// dashboard and records the run. Tracking failures are logged and never block the result.
// A pending dashboard closes its run with zero days.
func GetDashboardResults(ctx context.Context, cfg *contract.Config, client contract.StatsClient, mgr contract.CacheManager) (schema.Dashboard, error) {
	req := NewDashboardRequest(cfg)

	// --- 0. Begin Run Tracking (if configured) ---
	ctx = beginRunTracking(ctx, cfg, mgr, req)

	// --- 1. Fetch Phase (with caching) ---
	stats, err := cachedGetPeriodStats(ctx, cfg, client, mgr, req)
	if err != nil {
		return schema.Dashboard{}, err
	}
	if stats != nil {
		if err := contract.ValidateSpan(stats.StartDate, stats.EndDate); err != nil {
			return schema.Dashboard{}, fmt.Errorf("stats source returned an oversized window: %w", err)
		}
	}

	// --- 2. Aggregation ---
	dash := BuildDashboard(req, stats)

	// --- 3. End Run Tracking ---
	endRunTracking(ctx, mgr, dash)
	return dash, nil
}

// ExecuteDashboard builds the dashboard and prints it with the configured output format.
func ExecuteDashboard(ctx context.Context, cfg *contract.Config, client contract.StatsClient, mgr contract.CacheManager) error {
	start := time.Now()
	dash, err := GetDashboardResults(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteDashboard(dash, cfg, time.Since(start))
}

// ExecuteSummary builds the dashboard and prints only its rolling summary.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, client contract.StatsClient, mgr contract.CacheManager) error {
	dash, err := GetDashboardResults(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSummary(dash, cfg)
}
