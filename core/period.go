package core

import (
	"time"

	"github.com/huangsam/learnstat/core/agg"
	"github.com/huangsam/learnstat/internal/contract"
	"github.com/huangsam/learnstat/schema"
)

// ResolvePeriod returns the inclusive day keys for a period selection.
// Week covers today-6..today and month covers today-29..today. Custom uses the
// given bounds only when both are set, and falls back to week otherwise.
// Bounds are returned as given, so an inverted custom range stays inverted.
func ResolvePeriod(period schema.PeriodType, customStart, customEnd string, today time.Time) (string, string) {
	end := agg.FormatDayKey(today)

	switch period {
	case schema.MonthPeriod:
		return lookback(today, schema.MonthDays), end
	case schema.CustomPeriod:
		if customStart != "" && customEnd != "" {
			return customStart, customEnd
		}
	}
	return lookback(today, schema.WeekDays), end
}

// lookback returns the key of the first day of a span of days ending today.
func lookback(today time.Time, days int) string {
	y, m, d := today.Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
	return agg.FormatDayKey(first)
}

// NewDashboardRequest resolves the period of cfg into a request for BuildDashboard.
func NewDashboardRequest(cfg *contract.Config) schema.DashboardRequest {
	start, end := ResolvePeriod(cfg.Period, cfg.CustomStart, cfg.CustomEnd, cfg.Today)
	period := cfg.Period
	if period == schema.CustomPeriod && (cfg.CustomStart == "" || cfg.CustomEnd == "") {
		period = schema.WeekPeriod
	}
	return schema.DashboardRequest{
		SessionID:    cfg.SessionID,
		Period:       period,
		StartDate:    start,
		EndDate:      end,
		Denominators: cfg.Denominators,
		Window:       cfg.Window,
	}
}
