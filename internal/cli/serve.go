package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/latticetile/pkg/buildinfo"
	"github.com/matzehuels/latticetile/pkg/observability"
	"github.com/matzehuels/latticetile/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		cfg   server.Config
		cache cacheOpts
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		Long: `Serve runs the HTTP API until interrupted.

  GET  /healthz          liveness probe
  GET  /puzzles          built-in puzzles
  GET  /puzzles/{name}   one puzzle with its TOML definition
  POST /puzzles          upload a TOML definition
  POST /solve            {"puzzle": "domino-2x2", "limit": 10}
  GET  /stats            search, cache and request counters`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, cache)
			if err != nil {
				return err
			}
			defer runner.Close()

			cfg.Stats = observability.NewCounters()
			observability.Install(cfg.Stats)
			defer observability.Reset()

			cfg.Logger = c.Logger
			c.Logger.Info("starting server", "version", buildinfo.Short(), "max_limit", cfg.MaxLimit, "timeout", cfg.Timeout)
			return server.New(runner, cfg).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().IntVar(&cfg.MaxLimit, "max-limit", server.DefaultMaxLimit, "largest solution limit a request may use")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", server.DefaultTimeout, "longest search a request may run")
	addCacheFlags(cmd, &cache)

	return cmd
}
