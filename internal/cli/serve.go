package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geograph/internal/server"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		redis   bool
		noCache bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve topology builds over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend := cacheFile
			switch {
			case noCache:
				backend = cacheNone
			case redis:
				backend = cacheRedis
			}
			return c.runServe(cmd.Context(), addr, backend, timeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&redis, "redis", false, "cache in Redis (GEOGRAPH_REDIS_ADDR) instead of on disk")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "per-request build timeout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, backend cacheBackend, timeout time.Duration) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, backend)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(server.Options{
		Config:  cfg,
		Runner:  runner,
		Logger:  c.Logger,
		Timeout: timeout,
	})
	printInfo("Serving on %s (%d rules)", addr, len(cfg.Rules))
	return srv.ListenAndServe(ctx, addr)
}
