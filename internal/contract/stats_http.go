package contract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/learnstat/schema"
)

// maxStatsBodyBytes caps how much of a period-stats response is decoded.
var maxStatsBodyBytes int64 = 8 << 20

// HTTPStatsClient fetches period statistics from the user-progress API.
type HTTPStatsClient struct {
	BaseURL string
	client  *http.Client
}

// NewHTTPStatsClient returns a client for baseURL with the given request timeout.
func NewHTTPStatsClient(baseURL string, timeout time.Duration) *HTTPStatsClient {
	return &HTTPStatsClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Source implements StatsClient.
func (c *HTTPStatsClient) Source() (schema.StatsSource, string) {
	return schema.HTTPSource, c.BaseURL
}

// GetContentHash implements StatsClient. The remote source exposes no fingerprint,
// so freshness relies on the cache TTL.
func (c *HTTPStatsClient) GetContentHash(_ context.Context) (string, error) {
	return "", nil
}

// PeriodStatsURL builds the period-stats endpoint for a session and window.
func (c *HTTPStatsClient) PeriodStatsURL(sessionID, startDate, endDate string) string {
	q := url.Values{}
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)
	return fmt.Sprintf("%s/api/user-progress/%s/period-stats?%s", c.BaseURL, url.PathEscape(sessionID), q.Encode())
}

// GetPeriodStats implements StatsClient. 202 and 204 mean the source is still
// computing the window and are reported as pending.
func (c *HTTPStatsClient) GetPeriodStats(ctx context.Context, sessionID, startDate, endDate string) (*schema.PeriodStats, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session is required for the http stats source")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PeriodStatsURL(sessionID, startDate, endDate), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch period stats: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusAccepted, http.StatusNoContent:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var stats schema.PeriodStats
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxStatsBodyBytes)).Decode(&stats); err != nil {
		return nil, fmt.Errorf("decode period stats: %w", err)
	}
	if stats.PeriodData == nil {
		stats.PeriodData = []schema.RawDayRecord{}
	}
	return &stats, nil
}

// StatusError is returned when the stats API answers with an unexpected status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("stats api status %d", e.StatusCode)
	}
	return fmt.Sprintf("stats api status %d: %s", e.StatusCode, e.Body)
}

// NewStatsClient builds the configured stats client.
func NewStatsClient(cfg *Config) (StatsClient, error) {
	switch cfg.StatsSource {
	case schema.FileSource, "":
		return NewFileStatsClient(cfg.StatsPath), nil
	case schema.HTTPSource:
		return NewHTTPStatsClient(cfg.StatsURL, cfg.StatsTimeout), nil
	default:
		return nil, fmt.Errorf("unsupported stats source: %s", cfg.StatsSource)
	}
}
