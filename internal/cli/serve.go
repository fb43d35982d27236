package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cobuy/pkg/observability"
	"github.com/matzehuels/cobuy/pkg/server"
	"github.com/matzehuels/cobuy/pkg/session"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		origins []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Long: `Serve the JSON API used by the browser explorer. Each uploaded document
becomes a session; sessions idle longer than server.session_ttl are dropped.
Prometheus metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := c.cfg.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("cors-origin") {
				cfg.CORSOrigins = origins
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			prom := observability.NewPrometheusHooks(reg)
			observability.SetAnalysisHooks(prom)
			observability.SetCacheHooks(prom)
			observability.SetHTTPHooks(prom)
			defer observability.Reset()

			runner := c.newRunner(ctx)
			defer runner.Close()

			opts := c.options()
			opts.Logger = logger
			store := session.NewStore(runner, opts, cfg.SessionTTL.Duration)

			srv := server.New(store, logger, server.Config{
				Addr:         cfg.Addr,
				CORSOrigins:  cfg.CORSOrigins,
				MaxBodyBytes: int64(cfg.MaxBodyMB) << 20,
				Gatherer:     reg,
			})
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "allowed CORS origin (repeatable)")
	return cmd
}
