package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floatpos/pkg/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		cfg   server.Config
		cache cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the positioning HTTP API",
		Long: `Serve the positioning HTTP API.

Endpoints:
  POST /v1/position   run the jobs of a scene (JSON body, or TOML with
                      ?job=, ?refresh= and ?max_resets= query parameters)
  GET  /healthz       liveness and version

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cfg, cache)
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().Int64Var(&cfg.MaxBodyBytes, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")
	cmd.Flags().DurationVar(&cfg.RequestTimeout, "timeout", server.DefaultRequestTimeout, "per-request timeout")
	cmd.Flags().IntVar(&cfg.Concurrency, "concurrency", 0, "jobs positioned at once per request (default 4)")
	cache.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg server.Config, cache cacheFlags) error {
	runner, err := c.newRunner(ctx, cache, scopeAPI)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	cfg.Runner = runner
	cfg.Logger = loggerFromContext(ctx)
	srv, err := server.New(cfg)
	if err != nil {
		return err
	}

	printInfo("Listening on %s", cfg.Addr)
	printDetail("POST /v1/position · GET /healthz")
	start := time.Now()
	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	printSuccess("Server stopped after %s", time.Since(start).Round(time.Second))
	return nil
}
