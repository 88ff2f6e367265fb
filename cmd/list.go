package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"connecthub/internal/auth"
	"connecthub/internal/cli"
	"connecthub/internal/config"
	"connecthub/internal/connector"
	pkgstrings "connecthub/pkg/strings"
)

// connectorRow is the JSON shape of one list entry; it matches what the
// dashboard API returns for a connector.
type connectorRow struct {
	Name        string      `json:"name"`
	DisplayName string      `json:"displayName"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Installed   bool        `json:"installed"`
	Auth        auth.Status `json:"auth"`
}

func newListCmd() *cobra.Command {
	var (
		configPath   string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List connectors and their auth status",
		Long: `Lists all known connectors with their auth model, whether credentials are
configured, and whether the connector package is installed locally.

Examples:
  connecthub list
  connecthub list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(outputFormat)
			if err != nil {
				return err
			}

			e, err := buildEnv(configPath)
			if err != nil {
				return err
			}

			defs := connector.All()
			rows := make([]connectorRow, 0, len(defs))
			for _, def := range defs {
				rows = append(rows, connectorRow{
					Name:        def.Name,
					DisplayName: def.DisplayName,
					Description: def.Description,
					Category:    def.Category,
					Installed:   connector.Installed(e.root, def.Name),
					Auth:        e.agg.Status(def.Name),
				})
			}

			if format == cli.OutputJSON {
				return cli.WriteJSON(cmd.OutOrStdout(), rows)
			}

			t := cli.NewTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"NAME", "DISPLAY NAME", "DESCRIPTION", "CATEGORY", "AUTH", "CONFIGURED", "INSTALLED"})
			for _, row := range rows {
				installed := ""
				if row.Installed {
					installed = "yes"
				}
				t.AppendRow(table.Row{
					row.Name,
					row.DisplayName,
					pkgstrings.TruncateDescription(row.Description, pkgstrings.DefaultDescriptionMaxLen),
					row.Category,
					string(row.Auth.Type),
					cli.FormatConfigured(row.Auth.Configured),
					installed,
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json)")

	return cmd
}
