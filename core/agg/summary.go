package agg

import (
	"github.com/huangsam/learnstat/schema"
)

// Peaks returns the raw maxima across merged records, each floored at 1 so a
// chart axis is never zero-height.
func Peaks(merged map[string]schema.MergedDayRecord) schema.SeriesPeaks {
	peaks := schema.SeriesPeaks{Info: 1, Terms: 1, QuizScore: 1}
	for _, rec := range merged {
		peaks.Info = max(peaks.Info, rec.InfoCount)
		peaks.Terms = max(peaks.Terms, rec.TermCount)
		peaks.QuizScore = max(peaks.QuizScore, rec.QuizScore)
	}
	return peaks
}

// Snapshot builds the "today" cards from the last point of the series.
// It returns nil for an empty series.
func Snapshot(points []schema.NormalizedDayPoint, merged map[string]schema.MergedDayRecord, denoms schema.Denominators) *schema.TodaySnapshot {
	if len(points) == 0 {
		return nil
	}
	last := points[len(points)-1]
	rec := merged[last.Date]
	return &schema.TodaySnapshot{
		Date:           last.Date,
		InfoCount:      rec.InfoCount,
		InfoAvailable:  denoms.Info,
		InfoPercent:    last.InfoPercent,
		TermCount:      rec.TermCount,
		TermsAvailable: denoms.Terms,
		TermPercent:    last.TermPercent,
		QuizCorrect:    rec.QuizCorrect,
		QuizTotal:      rec.QuizTotal,
		QuizPercent:    last.QuizPercent,
		QuizScore:      last.QuizScore,
	}
}
