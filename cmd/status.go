package cmd

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"connecthub/internal/auth"
	"connecthub/internal/cli"
	"connecthub/internal/config"
	"connecthub/internal/connector"
)

func newStatusCmd() *cobra.Command {
	var (
		configPath   string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "status [connector]",
		Short: "Show the auth status of connectors",
		Long: `Shows how a connector authenticates, whether credentials are configured,
and the state of its environment variables and OAuth tokens. Without an
argument, all connectors are shown.

With a connector argument, exits with code 2 when it is not
authenticated, so scripts can branch on it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(outputFormat)
			if err != nil {
				return err
			}

			e, err := buildEnv(configPath)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				return statusAll(cmd, e, format)
			}

			name := args[0]
			if !connector.ValidName(name) {
				return fmt.Errorf("invalid connector name %q", name)
			}

			status := e.agg.Status(name)

			if format == cli.OutputJSON {
				if err := cli.WriteJSON(cmd.OutOrStdout(), status); err != nil {
					return err
				}
			} else {
				t := cli.NewTable(cmd.OutOrStdout())
				t.AppendRow(table.Row{"Auth type", string(status.Type)})
				t.AppendRow(table.Row{"Configured", cli.FormatConfigured(status.Configured)})
				if status.Type == auth.TypeOAuth {
					t.AppendRow(table.Row{"Refresh token", cli.FormatConfigured(status.HasRefreshToken)})
					expiry := time.Time{}
					if status.TokenExpiry != nil {
						expiry = *status.TokenExpiry
					}
					t.AppendRow(table.Row{"Token expiry", cli.FormatExpiry(expiry)})
				}
				for _, ev := range status.EnvVars {
					t.AppendRow(table.Row{ev.Variable, cli.FormatConfigured(ev.Set)})
				}
				t.Render()
			}

			if !status.Configured {
				return &cli.AuthRequiredError{Connector: name}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json)")

	return cmd
}

// statusAll renders the status of every registered connector. It never maps
// unconfigured connectors to an error exit; that is only meaningful for a
// single connector.
func statusAll(cmd *cobra.Command, e *env, format cli.OutputFormat) error {
	defs := connector.All()

	if format == cli.OutputJSON {
		statuses := make(map[string]auth.Status, len(defs))
		for _, def := range defs {
			statuses[def.Name] = e.agg.Status(def.Name)
		}
		return cli.WriteJSON(cmd.OutOrStdout(), statuses)
	}

	t := cli.NewTable(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"NAME", "AUTH", "CONFIGURED"})
	for _, def := range defs {
		status := e.agg.Status(def.Name)
		t.AppendRow(table.Row{
			def.Name,
			string(status.Type),
			cli.FormatConfigured(status.Configured),
		})
	}
	t.Render()
	return nil
}
