package agg

import (
	"github.com/huangsam/learnstat/schema"
)

// WindowSamples returns how many trailing points a window of size window covers
// in a series of length n.
func WindowSamples(n, window int) int {
	if window <= 0 || n <= 0 {
		return 0
	}
	return min(window, n)
}

// RollingMeans averages the last min(window, len(points)) entries of each series.
// An empty series, or a non-positive window, yields all zeros.
func RollingMeans(points []schema.NormalizedDayPoint, window int) schema.RollingMeans {
	samples := WindowSamples(len(points), window)
	if samples == 0 {
		return schema.RollingMeans{}
	}

	var info, terms, quiz int
	for _, p := range points[len(points)-samples:] {
		info += p.InfoPercent
		terms += p.TermPercent
		quiz += p.QuizPercent
	}

	n := float64(samples)
	return schema.RollingMeans{
		Info:  float64(info) / n,
		Terms: float64(terms) / n,
		Quiz:  float64(quiz) / n,
	}
}
