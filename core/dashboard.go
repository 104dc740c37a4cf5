package core

import (
	"github.com/huangsam/learnstat/core/agg"
	"github.com/huangsam/learnstat/internal/contract"
	"github.com/huangsam/learnstat/schema"
)

// BuildDashboard assembles everything the rendering surface needs from one fetch result.
// A nil stats value means the source has not resolved yet and yields a pending dashboard.
// It is pure, so callers rebuild whenever the request or the stats change.
func BuildDashboard(req schema.DashboardRequest, stats *schema.PeriodStats) schema.Dashboard {
	dash := schema.Dashboard{
		SessionID:    req.SessionID,
		Period:       req.Period,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Denominators: req.Denominators,
		Summary:      summarize(nil, req.Window),
		Peaks:        agg.Peaks(nil),
	}

	if stats == nil {
		dash.Pending = true
		return dash
	}

	// The echoed window wins; fall back to the requested one when it is missing
	if stats.StartDate != "" && stats.EndDate != "" {
		dash.StartDate = stats.StartDate
		dash.EndDate = stats.EndDate
	}

	points, merged := agg.Aggregate(stats.PeriodData, dash.StartDate, dash.EndDate, req.Denominators)
	dash.Points = points
	dash.TotalDays = len(points)
	dash.Summary = summarize(points, req.Window)
	dash.Today = agg.Snapshot(points, merged, req.Denominators)
	dash.Peaks = agg.Peaks(merged)
	return dash
}

// summarize computes the rolling summary with plain achievement labels.
func summarize(points []schema.NormalizedDayPoint, window int) schema.RollingSummary {
	means := agg.RollingMeans(points, window)
	return schema.RollingSummary{
		Window:  window,
		Samples: agg.WindowSamples(len(points), window),
		Means:   means,
		Labels: schema.SeriesLabels{
			Info:  contract.GetPlainLabel(means.Info),
			Terms: contract.GetPlainLabel(means.Terms),
			Quiz:  contract.GetPlainLabel(means.Quiz),
		},
	}
}
