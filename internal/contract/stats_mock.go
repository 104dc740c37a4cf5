package contract

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/huangsam/learnstat/schema"
)

// MockStatsClient is a mock implementation of StatsClient for testing.
type MockStatsClient struct {
	mock.Mock
}

var _ StatsClient = &MockStatsClient{} // Compile-time check

// GetPeriodStats implements the StatsClient interface.
func (m *MockStatsClient) GetPeriodStats(ctx context.Context, sessionID, startDate, endDate string) (*schema.PeriodStats, error) {
	args := m.Called(ctx, sessionID, startDate, endDate)
	stats, _ := args.Get(0).(*schema.PeriodStats)
	return stats, args.Error(1)
}

// Source implements the StatsClient interface.
func (m *MockStatsClient) Source() (schema.StatsSource, string) {
	args := m.Called()
	return args.Get(0).(schema.StatsSource), args.String(1)
}

// GetContentHash implements the StatsClient interface.
func (m *MockStatsClient) GetContentHash(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
