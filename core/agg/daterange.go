package agg

import (
	"fmt"
	"time"

	"github.com/huangsam/learnstat/schema"
)

// ParseDayKey parses a YYYY-MM-DD key into midnight UTC of that calendar day.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(schema.DayKeyLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return t, nil
}

// IsDayKey reports whether key is a well-formed calendar-day key.
func IsDayKey(key string) bool {
	_, err := ParseDayKey(key)
	return err == nil
}

// FormatDayKey formats the calendar date of t, in t's own location, as a day key.
func FormatDayKey(t time.Time) string {
	return civilDay(t).Format(schema.DayKeyLayout)
}

// civilDay drops the clock and zone of t, keeping the calendar date it shows.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange returns every calendar date from start to end inclusive as day keys.
// Stepping is done on the calendar in UTC, so DST transitions in the callers'
// zones cannot skip or repeat a day. start after end yields an empty slice.
func DateRange(start, end time.Time) []string {
	s, e := civilDay(start), civilDay(end)
	if s.After(e) {
		return []string{}
	}

	days := make([]string, 0, DayCount(s, e))
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(schema.DayKeyLayout))
	}
	return days
}

// DateRangeKeys is DateRange over two day keys.
func DateRangeKeys(startKey, endKey string) ([]string, error) {
	start, err := ParseDayKey(startKey)
	if err != nil {
		return nil, err
	}
	end, err := ParseDayKey(endKey)
	if err != nil {
		return nil, err
	}
	return DateRange(start, end), nil
}

// DayCount returns the inclusive number of calendar days between start and end,
// or 0 when start is after end.
func DayCount(start, end time.Time) int {
	s, e := civilDay(start), civilDay(end)
	if s.After(e) {
		return 0
	}
	// Both are UTC midnights, so the difference is a whole number of days.
	return int(e.Sub(s).Hours()/24) + 1
}
