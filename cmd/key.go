package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"connecthub/internal/auth"
	"connecthub/internal/config"
	"connecthub/internal/connector"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage connector API keys",
	}
	cmd.AddCommand(newKeySetCmd())
	return cmd
}

func newKeySetCmd() *cobra.Command {
	var (
		configPath string
		field      string
	)

	cmd := &cobra.Command{
		Use:   "set <connector> <value>",
		Short: "Store an API key or token for a connector",
		Long: `Stores a secret in the connector's credential profile. The profile field
defaults to the connector's documented auth model (apiKey for API key
connectors, accessToken for OAuth); --field overrides it.

Examples:
  connecthub key set stripe sk_live_abc123
  connecthub key set webflow tok-1 --field siteToken`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, value := args[0], args[1]
			if !connector.ValidName(name) {
				return fmt.Errorf("invalid connector name %q", name)
			}
			if value == "" {
				return fmt.Errorf("value must not be empty")
			}

			e, err := buildEnv(configPath)
			if err != nil {
				return err
			}

			target := field
			if target == "" {
				target = auth.SecretField(auth.Classify(e.docs.Get(name)))
			}

			if err := e.store.SaveKey(name, value, target); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s for connector %s\n", target, name)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	cmd.Flags().StringVar(&field, "field", "", "Profile field to store the secret under")

	return cmd
}
