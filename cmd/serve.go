package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/huangsam/learnstat/internal/httpapi"
)

// serveCmd runs the HTTP JSON API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve dashboards over an HTTP JSON API",
	Long: `Run an HTTP server exposing dashboards to web clients.

Routes:
  GET  /healthz
  GET  /api/progress/:session/dashboard?period=&start_date=&end_date=&window=
  GET  /api/progress/:session/summary?period=&start_date=&end_date=&window=
  POST /api/progress/normalize

Examples:
  learnstat serve --listen :9090 --stats-source http --stats-url https://progress.example.com`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return httpapi.Serve(ctx, cfg, statsClient, cacheManager)
	},
}
