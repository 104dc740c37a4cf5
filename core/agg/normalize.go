package agg

import (
	"github.com/huangsam/learnstat/schema"
)

// Percent maps count onto a percentage of denominator, rounded half up.
// The result is not clamped. A non-positive denominator yields 0.
func Percent(count, denominator int) int {
	if denominator <= 0 {
		return 0
	}
	return ratioPercent(count, denominator)
}

// QuizPercent is the answered-correctly ratio as a percentage, 0 when nothing was answered.
func QuizPercent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return ratioPercent(correct, total)
}

// ratioPercent returns floor(100*num/den + 1/2) in exact integer arithmetic.
// den must be positive.
func ratioPercent(num, den int) int {
	return floorDiv(200*num+den, 2*den)
}

// floorDiv divides rounding toward negative infinity. b must be positive.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// Normalize produces one point per date in dates, in the same order.
// Dates missing from merged are zero-filled.
func Normalize(dates []string, merged map[string]schema.MergedDayRecord, denoms schema.Denominators) []schema.NormalizedDayPoint {
	points := make([]schema.NormalizedDayPoint, len(dates))
	for i, date := range dates {
		rec, ok := merged[date]
		if !ok {
			points[i] = schema.NormalizedDayPoint{Date: date}
			continue
		}
		points[i] = NormalizeRecord(rec, denoms)
		points[i].Date = date
	}
	return points
}

// NormalizeRecord converts a single merged record into its percent point.
func NormalizeRecord(rec schema.MergedDayRecord, denoms schema.Denominators) schema.NormalizedDayPoint {
	return schema.NormalizedDayPoint{
		Date:        rec.Date,
		InfoPercent: Percent(rec.InfoCount, denoms.Info),
		TermPercent: Percent(rec.TermCount, denoms.Terms),
		QuizPercent: QuizPercent(rec.QuizCorrect, rec.QuizTotal),
		QuizScore:   rec.QuizScore,
	}
}
