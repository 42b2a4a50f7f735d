package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apecglobal/logofield/internal/server"
	"github.com/apecglobal/logofield/pkg/observability/prom"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve placements, layouts and splash pages over HTTP",
		Long: `Serve placements, layouts and splash pages over HTTP.

Routes:
  GET  /healthz
  GET  /metrics
  GET  /api/v1/placements              POST /api/v1/placements
  GET  /api/v1/tenants
  GET  /api/v1/tenants/{tenant}/layout
  GET  /api/v1/tenants/{tenant}/splash.{svg,html,json,dot,png,pdf}
  PUT  /api/v1/tenants/{tenant}/pin    DELETE /api/v1/tenants/{tenant}/pin

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			var metrics *prom.Metrics
			if !noMetrics {
				metrics = prom.New(nil)
				metrics.Install()
			}

			return server.New(cfg, runner, metrics, c.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}
