package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/learnstat/internal/contract"
	"github.com/huangsam/learnstat/schema"
)

// beginRunTracking starts a run when a run store is configured and
// returns a context carrying its ID.
func beginRunTracking(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, req schema.DashboardRequest) context.Context {
	store := runStore(mgr)
	if store == nil {
		return ctx
	}

	configParams := map[string]any{
		"session":          req.SessionID,
		"period":           string(req.Period),
		"start_date":       req.StartDate,
		"end_date":         req.EndDate,
		"window":           req.Window,
		"info_denominator": req.Denominators.Info,
		"term_denominator": req.Denominators.Terms,
		"stats_source":     string(cfg.StatsSource),
	}
	runID, err := store.BeginRun(time.Now(), configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return ctx
	}
	if runID <= 0 {
		return ctx
	}
	return withRunID(ctx, runID)
}

// endRunTracking records the day points of a dashboard and closes its run.
func endRunTracking(ctx context.Context, mgr contract.CacheManager, dash schema.Dashboard) {
	store := runStore(mgr)
	runID, ok := getRunID(ctx)
	if store == nil || !ok {
		return
	}

	for _, point := range dash.Points {
		if err := store.RecordDayPoint(runID, dash.SessionID, point); err != nil {
			contract.LogWarn(fmt.Sprintf("Run tracking failed for %s", point.Date), err)
			break
		}
	}

	if err := store.EndRun(runID, time.Now(), len(dash.Points), dash.Summary.Means); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

func runStore(mgr contract.CacheManager) contract.RunStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetRunStore()
}
