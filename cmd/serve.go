package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"connecthub/internal/config"
	"connecthub/internal/connector"
	"connecthub/internal/server"
	"connecthub/pkg/logging"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		host       string
		port       int
		dist       string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local connector dashboard",
		Long: `Runs the local dashboard HTTP server: the connector list and detail API,
API key storage, OAuth start/callback pages and token refresh. Connector
documentation is re-read automatically when packages change on disk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelInfo
			if debug {
				level = logging.LevelDebug
			}
			logging.Init(level, os.Stderr)

			e, err := buildEnv(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				e.cfg.Dashboard.Host = host
			}
			if cmd.Flags().Changed("port") {
				e.cfg.Dashboard.Port = port
			}
			if cmd.Flags().Changed("dist") {
				e.cfg.DashboardDist = dist
			}

			watcher := connector.NewWatcher(e.root, e.docs)
			if err := watcher.Start(); err != nil {
				return err
			}
			defer watcher.Stop()

			srv := server.New(server.Options{
				Dashboard:     e.cfg.Dashboard,
				ConnectorRoot: e.root,
				DistDir:       e.cfg.DashboardDist,
				Docs:          e.docs,
				Store:         e.store,
				Agg:           e.agg,
				Flow:          e.flow,
				Refresher:     e.ref,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Start(ctx)
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&configPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	cmd.Flags().StringVar(&host, "host", config.DefaultHost, "Host the dashboard binds to")
	cmd.Flags().IntVar(&port, "port", config.DefaultPort, "Port the dashboard listens on")
	cmd.Flags().StringVar(&dist, "dist", "", "Directory with a built static dashboard to serve")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	return cmd
}
