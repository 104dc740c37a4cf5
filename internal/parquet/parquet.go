// Package parquet provides data structures and functions for exporting learnstat
// run history and day series to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/learnstat/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single dashboard run with its rolling means.
// This struct maps to the learnstat_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalDays is the number of days in the normalized series
	TotalDays int32 `parquet:"total_days,snappy"`

	MeanInfo  *float64 `parquet:"mean_info,optional,snappy"`
	MeanTerms *float64 `parquet:"mean_terms,optional,snappy"`
	MeanQuiz  *float64 `parquet:"mean_quiz,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// DayPoint represents one normalized day recorded by a run.
// This struct maps to the learnstat_day_points database table.
type DayPoint struct {
	RunID       int64   `parquet:"run_id,snappy"`
	DayKey      string  `parquet:"day_key,snappy"`
	SessionID   string  `parquet:"session_id,snappy"`
	InfoPercent int32   `parquet:"info_percent,snappy"`
	TermPercent int32   `parquet:"term_percent,snappy"`
	QuizPercent int32   `parquet:"quiz_percent,snappy"`
	QuizScore   float64 `parquet:"quiz_score,snappy"`
}

// SeriesPoint is one row of a dashboard's day series, used by the parquet output mode.
type SeriesPoint struct {
	Date        string  `parquet:"date,snappy"`
	InfoPercent int32   `parquet:"ai_percent,snappy"`
	TermPercent int32   `parquet:"terms_percent,snappy"`
	QuizPercent int32   `parquet:"quiz_percent,snappy"`
	QuizScore   float64 `parquet:"quiz_score,snappy"`
}

// writeRows writes rows to w with a schema inferred from T's struct tags.
func writeRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeRowsFile creates outputPath and writes rows into it.
func writeRowsFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return writeRows(file, rows)
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeRowsFile(data, outputPath)
}

// WriteDayPointsParquet writes a slice of DayPoint structs to a Parquet file.
func WriteDayPointsParquet(data []DayPoint, outputPath string) error {
	return writeRowsFile(data, outputPath)
}

// WriteSeries writes the normalized day series to w.
func WriteSeries(w io.Writer, points []schema.NormalizedDayPoint) error {
	return writeRows(w, ConvertSeries(points))
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalDays:     record.TotalDays,
			MeanInfo:      record.MeanInfo,
			MeanTerms:     record.MeanTerms,
			MeanQuiz:      record.MeanQuiz,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertDayPointRecords converts schema.DayPointRecord to DayPoint for Parquet export.
func ConvertDayPointRecords(records []schema.DayPointRecord) []DayPoint {
	result := make([]DayPoint, len(records))
	for i, record := range records {
		result[i] = DayPoint(record)
	}
	return result
}

// ConvertSeries converts normalized points to SeriesPoint rows.
func ConvertSeries(points []schema.NormalizedDayPoint) []SeriesPoint {
	result := make([]SeriesPoint, len(points))
	for i, p := range points {
		result[i] = SeriesPoint{
			Date:        p.Date,
			InfoPercent: int32(p.InfoPercent),
			TermPercent: int32(p.TermPercent),
			QuizPercent: int32(p.QuizPercent),
			QuizScore:   p.QuizScore,
		}
	}
	return result
}
