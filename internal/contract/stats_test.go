package contract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/learnstat/schema"
)

const samplePayload = `{
  "period_data": [
    {"date": "2024-05-31", "ai_info": 3, "terms": 60, "quiz_score": 5, "quiz_correct": 4, "quiz_total": 4},
    {"date": "2024-06-01", "ai_info": 1, "terms": 10, "quiz_score": 2, "quiz_correct": 2, "quiz_total": 4},
    {"date": "2024-06-01", "ai_info": 2, "terms": 5, "quiz_score": 1, "quiz_correct": 1, "quiz_total": 4},
    {"date": "2024-06-03", "ai_info": 3, "terms": 60, "quiz_score": 4, "quiz_correct": 4, "quiz_total": 4}
  ],
  "start_date": "2024-05-01",
  "end_date": "2024-06-30",
  "total_days": 61
}`

const sampleYAML = `period_data:
  - date: "2024-06-02"
    ai_info: 1
    terms: 30
    quiz_score: 1.5
    quiz_correct: 1
    quiz_total: 2
start_date: "2024-06-01"
end_date: "2024-06-07"
total_days: 7
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileStatsClientJSON(t *testing.T) {
	client := NewFileStatsClient(writeFile(t, "stats.json", samplePayload))

	stats, err := client.GetPeriodStats(context.Background(), "abc", "2024-06-01", "2024-06-03")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, "2024-06-01", stats.StartDate)
	assert.Equal(t, "2024-06-03", stats.EndDate)
	assert.Equal(t, 3, stats.TotalDays)
	require.Len(t, stats.PeriodData, 3)
	for _, r := range stats.PeriodData {
		assert.GreaterOrEqual(t, r.Date, "2024-06-01")
	}
	assert.Equal(t, 60, stats.PeriodData[2].TermCount)
}

func TestFileStatsClientYAML(t *testing.T) {
	client := NewFileStatsClient(writeFile(t, "stats.yaml", sampleYAML))

	stats, err := client.GetPeriodStats(context.Background(), "", "2024-06-01", "2024-06-07")
	require.NoError(t, err)
	require.Len(t, stats.PeriodData, 1)
	assert.Equal(t, schema.RawDayRecord{
		Date: "2024-06-02", InfoCount: 1, TermCount: 30, QuizScore: 1.5, QuizCorrect: 1, QuizTotal: 2,
	}, stats.PeriodData[0])
	assert.Equal(t, 7, stats.TotalDays)
}

func TestFileStatsClientMissingFileIsPending(t *testing.T) {
	client := NewFileStatsClient(filepath.Join(t.TempDir(), "nope.json"))
	stats, err := client.GetPeriodStats(context.Background(), "", "2024-06-01", "2024-06-07")
	assert.NoError(t, err)
	assert.Nil(t, stats)
}

func TestFileStatsClientErrors(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		client := NewFileStatsClient(writeFile(t, "stats.json", "  \n"))
		_, err := client.GetPeriodStats(context.Background(), "", "2024-06-01", "2024-06-07")
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		client := NewFileStatsClient(writeFile(t, "stats.json", "{not json"))
		_, err := client.GetPeriodStats(context.Background(), "", "2024-06-01", "2024-06-07")
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		client := NewFileStatsClient(writeFile(t, "stats.json", samplePayload))
		_, err := client.GetPeriodStats(ctx, "", "2024-06-01", "2024-06-07")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFileStatsClientSource(t *testing.T) {
	client := NewFileStatsClient("stats.json")
	source, location := client.Source()
	assert.Equal(t, schema.FileSource, source)
	assert.True(t, filepath.IsAbs(location))
}

func TestFileStatsClientContentHash(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, "stats.json", `{"period_data": [{"date": "2024-06-03", "ai_info": 1}]}`)
	client := NewFileStatsClient(path)

	first, err := client.GetContentHash(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	again, err := client.GetContentHash(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, os.WriteFile(path, []byte(`{"period_data": [{"date": "2024-06-03", "ai_info": 3}]}`), 0o644))
	edited, err := client.GetContentHash(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, edited)

	missing, err := NewFileStatsClient(filepath.Join(t.TempDir(), "absent.json")).GetContentHash(ctx)
	require.NoError(t, err)
	assert.Empty(t, missing)

	hash, err := NewHTTPStatsClient("http://progress.local", time.Second).GetContentHash(ctx)
	require.NoError(t, err)
	assert.Empty(t, hash)
}

func TestHTTPStatsClientBodyLimit(t *testing.T) {
	original := maxStatsBodyBytes
	maxStatsBodyBytes = 64
	t.Cleanup(func() { maxStatsBodyBytes = original })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		record := `{"date": "2024-06-03", "ai_info": 1}`
		_, _ = w.Write([]byte(`{"period_data": [` + strings.Repeat(record+",", 10) + record + `]}`))
	}))
	defer srv.Close()

	client := NewHTTPStatsClient(srv.URL, time.Second)
	_, err := client.GetPeriodStats(context.Background(), "s1", "2024-06-01", "2024-06-07")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode period stats")
}

func TestFilterRecords(t *testing.T) {
	records := []schema.RawDayRecord{
		{Date: "2024-05-31"},
		{Date: "2024-06-01"},
		{Date: "garbage"},
		{Date: "2024-06-08"},
	}
	got := FilterRecords(records, "2024-06-01", "2024-06-07")
	assert.Equal(t, []schema.RawDayRecord{{Date: "2024-06-01"}, {Date: "garbage"}}, got)

	assert.Len(t, FilterRecords(records, "", ""), 4)
}

func TestDecodePeriodStatsNullData(t *testing.T) {
	stats, err := DecodePeriodStats([]byte(`{"period_data": null, "start_date": "2024-06-01"}`), ".json")
	require.NoError(t, err)
	assert.NotNil(t, stats.PeriodData)
	assert.Empty(t, stats.PeriodData)
}

func TestHTTPStatsClient(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		switch r.URL.Query().Get("start_date") {
		case "pending":
			w.WriteHeader(http.StatusAccepted)
		case "empty":
			w.WriteHeader(http.StatusNoContent)
		case "boom":
			http.Error(w, "upstream exploded", http.StatusInternalServerError)
		case "bad":
			_, _ = w.Write([]byte("{oops"))
		default:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(samplePayload))
		}
	}))
	defer srv.Close()

	client := NewHTTPStatsClient(srv.URL+"/", 2*time.Second)
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		stats, err := client.GetPeriodStats(ctx, "abc 123", "2024-06-01", "2024-06-03")
		require.NoError(t, err)
		require.NotNil(t, stats)
		assert.Equal(t, "/api/user-progress/abc 123/period-stats", gotPath)
		assert.Equal(t, "end_date=2024-06-03&start_date=2024-06-01", gotQuery)
		assert.Len(t, stats.PeriodData, 4)
		assert.Equal(t, "2024-05-01", stats.StartDate)
	})

	t.Run("accepted is pending", func(t *testing.T) {
		stats, err := client.GetPeriodStats(ctx, "abc", "pending", "2024-06-03")
		assert.NoError(t, err)
		assert.Nil(t, stats)
	})

	t.Run("no content is pending", func(t *testing.T) {
		stats, err := client.GetPeriodStats(ctx, "abc", "empty", "2024-06-03")
		assert.NoError(t, err)
		assert.Nil(t, stats)
	})

	t.Run("server error", func(t *testing.T) {
		_, err := client.GetPeriodStats(ctx, "abc", "boom", "2024-06-03")
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.Contains(t, statusErr.Error(), "upstream exploded")
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := client.GetPeriodStats(ctx, "abc", "bad", "2024-06-03")
		assert.Error(t, err)
	})

	t.Run("missing session", func(t *testing.T) {
		_, err := client.GetPeriodStats(ctx, " ", "2024-06-01", "2024-06-03")
		assert.Error(t, err)
	})
}

func TestHTTPStatsClientURL(t *testing.T) {
	client := NewHTTPStatsClient("https://example.com/", time.Second)
	assert.Equal(t,
		"https://example.com/api/user-progress/a%2Fb/period-stats?end_date=2024-06-07&start_date=2024-06-01",
		client.PeriodStatsURL("a/b", "2024-06-01", "2024-06-07"))

	source, location := client.Source()
	assert.Equal(t, schema.HTTPSource, source)
	assert.Equal(t, "https://example.com", location)
}

func TestNewStatsClient(t *testing.T) {
	c, err := NewStatsClient(&Config{StatsSource: schema.FileSource, StatsPath: "stats.json"})
	require.NoError(t, err)
	assert.IsType(t, &FileStatsClient{}, c)

	c, err = NewStatsClient(&Config{StatsSource: schema.HTTPSource, StatsURL: "http://localhost", StatsTimeout: time.Second})
	require.NoError(t, err)
	assert.IsType(t, &HTTPStatsClient{}, c)

	_, err = NewStatsClient(&Config{StatsSource: "carrier-pigeon"})
	assert.Error(t, err)
}
