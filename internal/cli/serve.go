package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/runmap/internal/server"
)

const shutdownTimeout = 10 * time.Second

// serveOpts holds options for the serve command.
type serveOpts struct {
	addr   string
	config string
	cache  string
}

// serveCommand creates the serve command for the HTTP preview API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: "127.0.0.1:8080"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP preview API",
		Long: `Serve generated maps over HTTP.

Endpoints:
  GET  /healthz          liveness and build info
  GET  /v1/maps/{seed}   map for a seed under the server config
  POST /v1/maps          map for a request body {"seed": 42, "config": {...}}

Both map endpoints accept ?format=json|dot|svg and ?detail=true.`,
		Example: `  runmap serve
  runmap serve --addr :9000 --cache redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "generation config (toml, yaml or json)")
	cmd.Flags().StringVar(&opts.cache, "cache", "", "cache location: directory, redis://, mongodb:// or none")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	ln, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           server.New(runner, cfg, c.Logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	printSuccess("Listening on http://%s", ln.Addr())
	printDetail("Config hash: %s", cfg.Hash()[:12])

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
