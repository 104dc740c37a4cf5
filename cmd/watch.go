package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/huangsam/learnstat/core"
	"github.com/huangsam/learnstat/internal/watch"
	"github.com/huangsam/learnstat/schema"
)

// watchCmd re-renders the dashboard whenever the stats file changes.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the dashboard whenever the stats file changes",
	Long: `Render the dashboard once, then watch --stats-path and render again after
each change settles for --debounce. Only the file stats source is supported.

Examples:
  learnstat watch --session abc123 --stats-path progress.yaml --debounce 500ms`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if cfg.StatsSource != schema.FileSource {
			return fmt.Errorf("watch requires the file stats source (received %s)", cfg.StatsSource)
		}

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		w := watch.New(cfg.StatsPath, cfg.Debounce, func(ctx context.Context) error {
			return core.ExecuteDashboard(ctx, cfg, statsClient, cacheManager)
		})
		return w.Run(ctx)
	},
}
