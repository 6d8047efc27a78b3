package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/packdex/packdex/internal/server"
	"github.com/packdex/packdex/pkg/catalog"
	"github.com/packdex/packdex/pkg/integrations/github"
	"github.com/packdex/packdex/pkg/license"
)

// shutdownTimeout bounds the drain period for in-flight publish requests.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command, which runs the publish HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the publish HTTP API",
		Long: `Serve starts the publish HTTP API. Publishers authenticate with API
tokens from the configuration file; each token maps to a login and a set of
repository grants. The server shuts down gracefully on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			st, err := c.openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			bc := c.newByteCache(ctx, cfg, false)
			defer bc.Close()

			publisher := &catalog.Publisher{
				Resolver: github.Resolver{},
				Prior:    st,
				Projects: st,
				Sink:     st,
				Metadata: c.newMetadataReader(cfg, bc),
				Licenses: license.Normalize,
				Logger:   c.Logger,
			}

			srv := server.New(cfg.Server.Addr, publisher, cfg, c.Logger)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			c.Logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
