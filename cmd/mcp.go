package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"connecthub/internal/config"
	"connecthub/internal/mcpserver"
	"connecthub/pkg/logging"
)

func newMCPCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long: `Serves connector credential management over the Model Context Protocol
on stdin/stdout, for use as an MCP server entry in an AI assistant
configuration. Logs go to stderr so they never corrupt the protocol
stream.`,
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

			m := mcpserver.New(mcpserver.Options{
				ConnectorRoot: e.root,
				BaseURL:       e.cfg.Dashboard.BaseURL(),
				Docs:          e.docs,
				Store:         e.store,
				Agg:           e.agg,
				Flow:          e.flow,
				Refresher:     e.ref,
			})
			return m.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&configPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	return cmd
}
