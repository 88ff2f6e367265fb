package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"connecthub/internal/cli"
	"connecthub/internal/config"
	"connecthub/internal/connector"
	"connecthub/internal/oauth"
)

func newConnectCmd() *cobra.Command {
	var (
		configPath string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "connect <connector>",
		Short: "Authorize an OAuth connector in the browser",
		Long: `Opens the browser at the dashboard's OAuth start page for the connector
and waits until the authorization completes. The dashboard must be
running (see 'connecthub serve'); it receives the provider callback and
stores the tokens.`,
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

			if _, ok := oauth.RegistryLookup(name); !ok {
				return fmt.Errorf("connector %s does not use OAuth; store a key with 'connecthub key set %s <value>'", name, name)
			}
			if !e.flow.Available(name) {
				fmt.Fprintf(cmd.OutOrStdout(),
					"Connector %s has no OAuth client credentials configured.\n"+
						"Add a credentials.json with clientId and clientSecret under the connector directory.\n", name)
				return &cli.AuthRequiredError{Connector: name}
			}

			startURL := fmt.Sprintf("%s/oauth/%s/start", e.cfg.Dashboard.BaseURL(), name)
			fmt.Fprintf(cmd.OutOrStdout(), "Opening browser for authentication...\n")
			fmt.Fprintf(cmd.OutOrStdout(), "If the browser doesn't open, visit:\n  %s\n\n", startURL)
			if err := cli.OpenBrowser(startURL); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Failed to open browser: %v\n", err)
			}

			before := e.store.LoadTokens(name).AccessToken

			s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			s.Suffix = " Waiting for authorization..."
			s.Start()
			defer s.Stop()

			deadline := time.Now().Add(timeout)
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()

			for {
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-ticker.C:
					tokens := e.store.LoadTokens(name)
					if tokens.AccessToken != "" && tokens.AccessToken != before {
						s.Stop()
						fmt.Fprintf(cmd.OutOrStdout(), "Connector %s is now authorized.\n", name)
						return nil
					}
					if time.Now().After(deadline) {
						s.Stop()
						return &cli.AuthFailedError{
							Connector: name,
							Reason:    "timed out waiting for authorization",
						}
					}
				}
			}
		},
	}

	cmd.Flags().StringVar(&configPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "How long to wait for the authorization to complete")

	return cmd
}
