// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/learnstat/internal/contract"
	"github.com/huangsam/learnstat/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteDashboard prints a dashboard using the configured output format.
func (ow *OutWriter) WriteDashboard(dash schema.Dashboard, cfg *contract.Config, duration time.Duration) error {
	return WriteDashboardResults(dash, cfg, duration)
}

// WriteSummary prints the rolling summary of a dashboard using the configured output format.
func (ow *OutWriter) WriteSummary(dash schema.Dashboard, cfg *contract.Config) error {
	return WriteSummaryResults(dash, cfg)
}
