package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/learnstat/core"
	"github.com/huangsam/learnstat/internal/contract"
)

// dashboardCmd renders the full progress dashboard.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the per-day progress dashboard for a session.",
	Long: `Fetch per-day learning stats for a session and render them as a dashboard.

Each day in the window gets three completion percentages:
- Info: info items viewed against the info catalog size
- Terms: glossary terms learned against the term catalog size
- Quiz: correct answers against quiz questions attempted

Days without activity are zero-filled. Below the series you get today's cards,
the rolling means over the last --window days and an achievement label per series.

Examples:
  # This week's dashboard from a local stats file
  learnstat dashboard --session abc123 --stats-path progress.json

  # Last 30 days from the progress service
  learnstat dashboard -s abc123 --period month --stats-source http --stats-url https://progress.example.com

  # A custom window exported as CSV
  learnstat dashboard -s abc123 --period custom --start 2024-06-01 --end 2024-06-14 --output csv --output-file june.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDashboard(rootCtx, cfg, statsClient, cacheManager); err != nil {
			contract.LogFatal("Cannot build dashboard", err)
		}
	},
}

// summaryCmd renders only the rolling summary.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show rolling means and achievement labels for a session.",
	Long: `Compute the rolling mean of each completion series over the last --window days
and label it Complete (100+), On Track (70+), Behind (30+) or Idle.

Examples:
  # Rolling weekly summary
  learnstat summary --session abc123

  # Three-day rolling summary as JSON
  learnstat summary -s abc123 --window 3 --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, statsClient, cacheManager); err != nil {
			contract.LogFatal("Cannot build summary", err)
		}
	},
}
