package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/internal/runstore"
	"github.com/huangsam/trendbox/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve weekly and monthly summaries over HTTP",
	Long: `Start an HTTP server that renders summaries for rows posted as JSON.

Routes:
- POST /v1/summary/weekly and /v1/summary/monthly
- GET  /v1/fields
- GET  /healthz
- GET  /metrics (Prometheus)

Flags given here become the defaults each request may override through its
"options" object. Append ?record=false to skip run history for one request.

Examples:
  trendbox serve --addr :9090 --history-backend sqlite
  curl -X POST localhost:9090/v1/summary/weekly -d @sales.json`,
	PreRunE: serverSetup,
	Run: func(_ *cobra.Command, _ []string) {
		contract.ConfigureLogger(cfg.Verbose, !viper.IsSet("log-json") || viper.GetBool("log-json"))

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(cfg, runstore.Manager, version)
		if err := srv.Listen(ctx, cfg.ServeAddr); err != nil {
			contract.LogFatal("HTTP server failed", err)
		}
	},
}
