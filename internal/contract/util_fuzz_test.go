package contract

import (
	"testing"

	"github.com/huangsam/learnstat/schema"
)

// FuzzDecodePeriodStats fuzzes payload decoding with random JSON and YAML input.
func FuzzDecodePeriodStats(f *testing.F) {
	seeds := []struct {
		data string
		ext  string
	}{
		{samplePayload, ".json"},
		{sampleYAML, ".yaml"},
		{`{"period_data": null}`, ".json"},
		{"", ".yml"},
		{"[]", ".json"},
	}
	for _, seed := range seeds {
		f.Add(seed.data, seed.ext)
	}

	f.Fuzz(func(t *testing.T, data string, ext string) {
		stats, err := DecodePeriodStats([]byte(data), ext)
		if err != nil {
			return
		}
		if stats.PeriodData == nil {
			t.Errorf("decoded payload has nil period data")
		}
		filtered := FilterRecords(stats.PeriodData, stats.StartDate, stats.EndDate)
		if len(filtered) > len(stats.PeriodData) {
			t.Errorf("filter grew the record list")
		}
	})
}

// FuzzFilterRecords checks that filtering never keeps a valid date outside the window.
func FuzzFilterRecords(f *testing.F) {
	f.Add("2024-06-01", "2024-06-01", "2024-06-07")
	f.Add("2024-05-31", "2024-06-01", "2024-06-07")
	f.Add("bogus", "2024-06-01", "2024-06-07")

	f.Fuzz(func(t *testing.T, date, start, end string) {
		out := FilterRecords([]schema.RawDayRecord{{Date: date}}, start, end)
		if len(out) > 1 {
			t.Fatalf("filter produced %d records from one", len(out))
		}
	})
}
