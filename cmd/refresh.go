package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"connecthub/internal/cli"
	"connecthub/internal/config"
	"connecthub/internal/connector"
)

func newRefreshCmd() *cobra.Command {
	var (
		configPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "refresh <connector>",
		Short: "Refresh the OAuth access token of a connector",
		Long: `Refreshes the connector's OAuth access token using its stored refresh
token. By default the token is only refreshed when it is missing or
expires within the next minute; --force always refreshes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !connector.ValidName(name) {
				return fmt.Errorf("invalid connector name %q", name)
			}

			e, err := buildEnv(configPath)
			if err != nil {
				return err
			}

			if !force && !e.ref.NeedsRefresh(name) {
				fmt.Fprintf(cmd.OutOrStdout(), "Access token for %s is still valid.\n", name)
				return nil
			}

			result := e.ref.Refresh(cmd.Context(), name)
			if !result.Success {
				return &cli.AuthFailedError{Connector: name, Reason: result.Error}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Refreshed access token for %s", name)
			if expiry := e.store.TokenExpiry(name); expiry != nil {
				fmt.Fprintf(cmd.OutOrStdout(), " (expires %s)", cli.FormatExpiry(*expiry))
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	cmd.Flags().BoolVar(&force, "force", false, "Refresh even when the current token is still valid")

	return cmd
}
