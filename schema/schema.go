// Package schema has the data models shared by every part of learnstat.
package schema

// RawDayRecord is one reported observation for a calendar day, as delivered by the stats source.
// A source may report several records for the same date and may omit dates entirely.
type RawDayRecord struct {
	Date        string  `json:"date" yaml:"date"`
	InfoCount   int     `json:"ai_info" yaml:"ai_info"`
	TermCount   int     `json:"terms" yaml:"terms"`
	QuizScore   float64 `json:"quiz_score" yaml:"quiz_score"` // opaque, carried through
	QuizCorrect int     `json:"quiz_correct" yaml:"quiz_correct"`
	QuizTotal   int     `json:"quiz_total" yaml:"quiz_total"`
}

// MergedDayRecord is the field-wise maximum of every RawDayRecord sharing a date.
type MergedDayRecord struct {
	Date        string  `json:"date" yaml:"date"`
	InfoCount   int     `json:"ai_info" yaml:"ai_info"`
	TermCount   int     `json:"terms" yaml:"terms"`
	QuizScore   float64 `json:"quiz_score" yaml:"quiz_score"`
	QuizCorrect int     `json:"quiz_correct" yaml:"quiz_correct"`
	QuizTotal   int     `json:"quiz_total" yaml:"quiz_total"`
}

// NormalizedDayPoint is one entry in the gap-free, per-day percent series.
// Percentages are not clamped, so values above 100 signal over-completion.
type NormalizedDayPoint struct {
	Date        string  `json:"date" yaml:"date"`
	InfoPercent int     `json:"ai_percent" yaml:"ai_percent"`
	TermPercent int     `json:"terms_percent" yaml:"terms_percent"`
	QuizPercent int     `json:"quiz_percent" yaml:"quiz_percent"`
	QuizScore   float64 `json:"quiz_score" yaml:"quiz_score"`
}

// Denominators holds the fixed catalog sizes that raw counts are measured against.
type Denominators struct {
	Info  int `json:"info" yaml:"info"`
	Terms int `json:"terms" yaml:"terms"`
}

// PeriodStats is the payload returned by the stats source for one session and date window.
type PeriodStats struct {
	PeriodData []RawDayRecord `json:"period_data" yaml:"period_data"`
	StartDate  string         `json:"start_date" yaml:"start_date"`
	EndDate    string         `json:"end_date" yaml:"end_date"`
	TotalDays  int            `json:"total_days" yaml:"total_days"`
}

// RollingMeans holds the trailing-window mean of each percent series.
type RollingMeans struct {
	Info  float64 `json:"ai_percent" yaml:"ai_percent"`
	Terms float64 `json:"terms_percent" yaml:"terms_percent"`
	Quiz  float64 `json:"quiz_percent" yaml:"quiz_percent"`
}

// Get returns the mean for the given series.
func (r RollingMeans) Get(key SeriesKey) float64 {
	switch key {
	case InfoSeries:
		return r.Info
	case TermsSeries:
		return r.Terms
	case QuizSeries:
		return r.Quiz
	default:
		return 0
	}
}

// RollingSummary is the weekly-achievement view of the tail of a series.
type RollingSummary struct {
	Window  int          `json:"window" yaml:"window"`
	Samples int          `json:"samples" yaml:"samples"`
	Means   RollingMeans `json:"means" yaml:"means"`
	Labels  SeriesLabels `json:"labels" yaml:"labels"`
}

// SeriesLabels holds the achievement label for each rolling mean.
type SeriesLabels struct {
	Info  string `json:"ai_percent" yaml:"ai_percent"`
	Terms string `json:"terms_percent" yaml:"terms_percent"`
	Quiz  string `json:"quiz_percent" yaml:"quiz_percent"`
}

// TodaySnapshot feeds the per-activity cards and is sourced from the last day of the series.
type TodaySnapshot struct {
	Date           string  `json:"date" yaml:"date"`
	InfoCount      int     `json:"today_ai_info" yaml:"today_ai_info"`
	InfoAvailable  int     `json:"total_ai_info_available" yaml:"total_ai_info_available"`
	InfoPercent    int     `json:"ai_percent" yaml:"ai_percent"`
	TermCount      int     `json:"today_terms" yaml:"today_terms"`
	TermsAvailable int     `json:"total_terms_available" yaml:"total_terms_available"`
	TermPercent    int     `json:"terms_percent" yaml:"terms_percent"`
	QuizCorrect    int     `json:"today_quiz_correct" yaml:"today_quiz_correct"`
	QuizTotal      int     `json:"today_quiz_total" yaml:"today_quiz_total"`
	QuizPercent    int     `json:"today_quiz_percent" yaml:"today_quiz_percent"`
	QuizScore      float64 `json:"today_quiz_score" yaml:"today_quiz_score"`
}

// SeriesPeaks holds the raw maxima across merged records, floored at 1 for axis scaling.
type SeriesPeaks struct {
	Info      int     `json:"ai_info" yaml:"ai_info"`
	Terms     int     `json:"terms" yaml:"terms"`
	QuizScore float64 `json:"quiz_score" yaml:"quiz_score"`
}

// Dashboard is everything the rendering surface needs for one period selection.
// A pending dashboard has no points because the stats source has not resolved yet.
type Dashboard struct {
	SessionID    string               `json:"session_id" yaml:"session_id"`
	Period       PeriodType           `json:"period" yaml:"period"`
	StartDate    string               `json:"start_date" yaml:"start_date"`
	EndDate      string               `json:"end_date" yaml:"end_date"`
	TotalDays    int                  `json:"total_days" yaml:"total_days"`
	Pending      bool                 `json:"pending" yaml:"pending"`
	Points       []NormalizedDayPoint `json:"points" yaml:"points"`
	Summary      RollingSummary       `json:"summary" yaml:"summary"`
	Today        *TodaySnapshot       `json:"today,omitempty" yaml:"today,omitempty"`
	Peaks        SeriesPeaks          `json:"peaks" yaml:"peaks"`
	Denominators Denominators         `json:"denominators" yaml:"denominators"`
}

// DashboardRequest holds the inputs needed to assemble a dashboard.
type DashboardRequest struct {
	SessionID    string
	Period       PeriodType
	StartDate    string // inclusive, YYYY-MM-DD
	EndDate      string // inclusive, YYYY-MM-DD
	Denominators Denominators
	Window       int
}
