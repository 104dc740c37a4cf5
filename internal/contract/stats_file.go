package contract

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/huangsam/learnstat/schema"
)

// FileStatsClient serves period statistics from a local JSON or YAML document.
// It behaves like the remote endpoint: records are filtered to the requested
// window and the requested bounds are echoed back.
type FileStatsClient struct {
	Path string
}

// NewFileStatsClient returns a client reading the document at path.
func NewFileStatsClient(path string) *FileStatsClient {
	return &FileStatsClient{Path: path}
}

// Source implements StatsClient.
func (c *FileStatsClient) Source() (schema.StatsSource, string) {
	abs, err := filepath.Abs(c.Path)
	if err != nil {
		abs = c.Path
	}
	return schema.FileSource, abs
}

// GetContentHash implements StatsClient with a SHA-256 of the file bytes.
// A missing file hashes to the empty string.
func (c *FileStatsClient) GetContentHash(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(c.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("hash stats file: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

// GetPeriodStats implements StatsClient. A missing file is pending, not an error.
func (c *FileStatsClient) GetPeriodStats(ctx context.Context, _ string, startDate, endDate string) (*schema.PeriodStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(c.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read stats file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("stats file %s is empty", c.Path)
	}

	stats, err := DecodePeriodStats(data, filepath.Ext(c.Path))
	if err != nil {
		return nil, fmt.Errorf("decode stats file %s: %w", c.Path, err)
	}

	stats.PeriodData = FilterRecords(stats.PeriodData, startDate, endDate)
	stats.StartDate = startDate
	stats.EndDate = endDate
	stats.TotalDays = inclusiveDays(startDate, endDate)
	return stats, nil
}

// DecodePeriodStats decodes a PeriodStats payload. ext selects YAML for ".yaml"
// and ".yml"; anything else is decoded as JSON.
func DecodePeriodStats(data []byte, ext string) (*schema.PeriodStats, error) {
	var stats schema.PeriodStats
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &stats); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &stats); err != nil {
			return nil, err
		}
	}
	if stats.PeriodData == nil {
		stats.PeriodData = []schema.RawDayRecord{}
	}
	return &stats, nil
}

// FilterRecords keeps records whose date falls inside [startDate, endDate].
// Records with malformed dates are kept so the engine decides what to drop.
func FilterRecords(records []schema.RawDayRecord, startDate, endDate string) []schema.RawDayRecord {
	out := make([]schema.RawDayRecord, 0, len(records))
	for _, r := range records {
		if _, err := time.Parse(schema.DayKeyLayout, r.Date); err != nil {
			out = append(out, r)
			continue
		}
		// Day keys are zero-padded, so lexical order is calendar order.
		if (startDate != "" && r.Date < startDate) || (endDate != "" && r.Date > endDate) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func inclusiveDays(startDate, endDate string) int {
	start, err := time.Parse(schema.DayKeyLayout, startDate)
	if err != nil {
		return 0
	}
	end, err := time.Parse(schema.DayKeyLayout, endDate)
	if err != nil || start.After(end) {
		return 0
	}
	// Unix seconds, since a Duration saturates after about 292 years.
	return int((end.Unix()-start.Unix())/86400) + 1
}
