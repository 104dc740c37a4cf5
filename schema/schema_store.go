package schema

import "time"

// RunRecord represents a row from the learnstat_runs table.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalDays     int32
	MeanInfo      *float64
	MeanTerms     *float64
	MeanQuiz      *float64
	ConfigParams  *string
}

// DayPointRecord represents a row from the learnstat_day_points table.
type DayPointRecord struct {
	RunID       int64
	DayKey      string
	SessionID   string
	InfoPercent int32
	TermPercent int32
	QuizPercent int32
	QuizScore   float64
}
