package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/huangsam/learnstat/internal/contract"
	lsparquet "github.com/huangsam/learnstat/internal/parquet"
	"github.com/huangsam/learnstat/schema"
)

func sampleDashboard() schema.Dashboard {
	return schema.Dashboard{
		SessionID: "session-1",
		Period:    schema.CustomPeriod,
		StartDate: "2024-06-01",
		EndDate:   "2024-06-03",
		TotalDays: 3,
		Points: []schema.NormalizedDayPoint{
			{Date: "2024-06-01", InfoPercent: 67, TermPercent: 17, QuizPercent: 50, QuizScore: 7.5},
			{Date: "2024-06-02"},
			{Date: "2024-06-03", InfoPercent: 100, TermPercent: 100, QuizPercent: 100, QuizScore: 9},
		},
		Summary: schema.RollingSummary{
			Window:  7,
			Samples: 3,
			Means:   schema.RollingMeans{Info: 55.666666, Terms: 39, Quiz: 50},
			Labels:  schema.SeriesLabels{Info: "Behind", Terms: "Behind", Quiz: "Behind"},
		},
		Today: &schema.TodaySnapshot{
			Date: "2024-06-03", InfoCount: 3, InfoAvailable: 3, InfoPercent: 100,
			TermCount: 60, TermsAvailable: 60, TermPercent: 100,
			QuizCorrect: 4, QuizTotal: 4, QuizPercent: 100, QuizScore: 9,
		},
		Peaks:        schema.SeriesPeaks{Info: 3, Terms: 60, QuizScore: 9},
		Denominators: schema.Denominators{Info: 3, Terms: 60},
	}
}

func plainConfig() *contract.Config {
	return &contract.Config{Precision: 1, Width: 100, Output: schema.TextOut, CacheBackend: schema.SQLiteBackend}
}

func TestWriteDashboardTable(t *testing.T) {
	fmtFloat, _ := createFormatters(1)

	t.Run("full dashboard", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeDashboardTable(&buf, sampleDashboard(), plainConfig(), fmtFloat, 120*time.Millisecond))

		output := buf.String()
		assert.Contains(t, output, `Progress for session "session-1", 2024-06-01 to 2024-06-03 (3 days)`)
		assert.Contains(t, output, "2024-06-02")
		assert.Contains(t, output, "67")
		assert.Contains(t, output, "7.5")
		assert.Contains(t, output, "Today (2024-06-03)")
		assert.Contains(t, output, "AI Info")
		assert.Contains(t, output, "100%")
		assert.Contains(t, output, "Rolling 7-day summary (3 samples)")
		assert.Contains(t, output, "55.7")
		assert.Contains(t, output, "Behind")
		assert.Contains(t, output, "Dashboard built in 120ms. Cache backend: sqlite")
	})

	t.Run("narrow terminal drops quiz score", func(t *testing.T) {
		cfg := plainConfig()
		cfg.Width = 40
		dash := sampleDashboard()
		dash.Points[0].QuizScore = 1234.5
		dash.Today = nil

		var buf bytes.Buffer
		require.NoError(t, writeDashboardTable(&buf, dash, cfg, fmtFloat, 0))
		assert.NotContains(t, buf.String(), "1234.5")
	})

	t.Run("pending", func(t *testing.T) {
		dash := schema.Dashboard{SessionID: "s", StartDate: "2024-06-01", EndDate: "2024-06-07", Pending: true}

		var buf bytes.Buffer
		require.NoError(t, writeDashboardTable(&buf, dash, plainConfig(), fmtFloat, 0))
		assert.Equal(t, "⏳ Waiting for stats for session \"s\" (2024-06-01 to 2024-06-07)\n", buf.String())
	})

	t.Run("empty series", func(t *testing.T) {
		dash := schema.Dashboard{SessionID: "s", StartDate: "2024-06-05", EndDate: "2024-06-01", Points: []schema.NormalizedDayPoint{}}

		var buf bytes.Buffer
		require.NoError(t, writeDashboardTable(&buf, dash, plainConfig(), fmtFloat, 0))
		assert.Contains(t, buf.String(), NoDataMessage)
		assert.NotContains(t, buf.String(), "Rolling")
	})

	t.Run("long session truncated", func(t *testing.T) {
		dash := sampleDashboard()
		dash.SessionID = strings.Repeat("x", 40)

		var buf bytes.Buffer
		require.NoError(t, writeDashboardTable(&buf, dash, plainConfig(), fmtFloat, 0))
		assert.Contains(t, buf.String(), strings.Repeat("x", maxSessionWidth-3)+"...")
		assert.NotContains(t, buf.String(), strings.Repeat("x", 40))
	})
}

func TestWriteJSONDashboard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSONDashboard(&buf, sampleDashboard()))

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "session-1", parsed["session_id"])
	assert.Equal(t, false, parsed["pending"])

	points, ok := parsed["points"].([]any)
	require.True(t, ok)
	require.Len(t, points, 3)
	first := points[0].(map[string]any)
	assert.Equal(t, float64(67), first["ai_percent"])
	assert.Equal(t, float64(17), first["terms_percent"])
	assert.Equal(t, float64(50), first["quiz_percent"])

	today := parsed["today"].(map[string]any)
	assert.Equal(t, float64(60), today["total_terms_available"])
}

func TestWriteYAMLDashboard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeYAMLDashboard(&buf, sampleDashboard()))

	var parsed schema.Dashboard
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, sampleDashboard(), parsed)
	assert.Contains(t, buf.String(), "ai_percent: 67")
}

func TestWriteCSVDashboard(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)

	var buf bytes.Buffer
	require.NoError(t, writeCSVDashboard(&buf, sampleDashboard(), fmtFloat, intFmt))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4) // header + 3 days
	assert.Equal(t, []string{"date", "ai_percent", "terms_percent", "quiz_percent", "quiz_score"}, records[0])
	assert.Equal(t, []string{"2024-06-01", "67", "17", "50", "7.50"}, records[1])
	assert.Equal(t, []string{"2024-06-02", "0", "0", "0", "0.00"}, records[2])
}

func TestWriteCSVSummary(t *testing.T) {
	fmtFloat, _ := createFormatters(1)

	var buf bytes.Buffer
	require.NoError(t, writeCSVSummary(&buf, sampleDashboard().Summary, fmtFloat))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"ai_percent", "55.7", "Behind", "7", "3"}, records[1])
	assert.Equal(t, []string{"quiz_percent", "50.0", "Behind", "7", "3"}, records[3])
}

func TestWriteSummaryTableLabels(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	summary := schema.RollingSummary{
		Window:  7,
		Samples: 7,
		Means:   schema.RollingMeans{Info: 120, Terms: 75, Quiz: 10},
	}

	var buf bytes.Buffer
	require.NoError(t, writeSummaryTable(&buf, summary, plainConfig(), fmtFloat))
	output := buf.String()
	assert.Contains(t, output, contract.CompleteValue)
	assert.Contains(t, output, contract.OnTrackValue)
	assert.Contains(t, output, contract.IdleValue)
}

func TestWriteDashboardResultsToFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		output schema.OutputMode
		check  func(t *testing.T, data []byte)
	}{
		{"json", schema.JSONOut, func(t *testing.T, data []byte) {
			assert.True(t, json.Valid(data))
		}},
		{"yaml", schema.YAMLOut, func(t *testing.T, data []byte) {
			assert.Contains(t, string(data), "session_id: session-1")
		}},
		{"csv", schema.CSVOut, func(t *testing.T, data []byte) {
			assert.True(t, strings.HasPrefix(string(data), "date,ai_percent"))
		}},
		{"text", schema.TextOut, func(t *testing.T, data []byte) {
			assert.Contains(t, string(data), "Rolling 7-day summary")
		}},
		{"parquet", schema.ParquetOut, func(t *testing.T, data []byte) {
			reader := parquet.NewGenericReader[lsparquet.SeriesPoint](bytes.NewReader(data))
			defer func() { _ = reader.Close() }()
			assert.Equal(t, int64(3), reader.NumRows())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := plainConfig()
			cfg.Output = tt.output
			cfg.OutputFile = filepath.Join(dir, "dashboard."+tt.name)

			require.NoError(t, NewOutWriter().WriteDashboard(sampleDashboard(), cfg, time.Millisecond))

			data, err := os.ReadFile(cfg.OutputFile)
			require.NoError(t, err)
			tt.check(t, data)
		})
	}
}

func TestWriteSummaryResults(t *testing.T) {
	t.Run("json to file", func(t *testing.T) {
		cfg := plainConfig()
		cfg.Output = schema.JSONOut
		cfg.OutputFile = filepath.Join(t.TempDir(), "summary.json")

		require.NoError(t, NewOutWriter().WriteSummary(sampleDashboard(), cfg))

		data, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		var summary schema.RollingSummary
		require.NoError(t, json.Unmarshal(data, &summary))
		assert.Equal(t, 7, summary.Window)
		assert.Equal(t, "Behind", summary.Labels.Info)
	})

	t.Run("parquet unsupported", func(t *testing.T) {
		cfg := plainConfig()
		cfg.Output = schema.ParquetOut
		cfg.OutputFile = filepath.Join(t.TempDir(), "summary.parquet")

		err := WriteSummaryResults(sampleDashboard(), cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only supported by the dashboard command")
	})

	t.Run("bad output path", func(t *testing.T) {
		cfg := plainConfig()
		cfg.Output = schema.CSVOut
		cfg.OutputFile = filepath.Join(t.TempDir(), "missing", "summary.csv")

		assert.Error(t, WriteSummaryResults(sampleDashboard(), cfg))
	})
}

func TestHelpers(t *testing.T) {
	t.Run("formatters", func(t *testing.T) {
		fmtFloat, intFmt := createFormatters(2)
		assert.Equal(t, "55.67", fmtFloat(55.666))
		assert.Equal(t, "%d", intFmt)
	})

	t.Run("width override", func(t *testing.T) {
		assert.Equal(t, 120, getTermWidth(&contract.Config{Width: 120}))
		assert.True(t, showQuizScore(&contract.Config{Width: minScoreWidth}))
		assert.False(t, showQuizScore(&contract.Config{Width: minScoreWidth - 1}))
	})

	t.Run("width detection falls back", func(t *testing.T) {
		// Test binaries do not run attached to a terminal
		width := getTermWidth(&contract.Config{})
		assert.Positive(t, width)
	})

	t.Run("plain labels without color", func(t *testing.T) {
		assert.Equal(t, contract.CompleteValue, labelFor(&contract.Config{UseColors: false}, 100))
		assert.Contains(t, labelFor(&contract.Config{UseColors: true}, 100), contract.CompleteValue)
	})
}
