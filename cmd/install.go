package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"connecthub/internal/config"
	"connecthub/internal/installer"
)

func newInstallCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "install <connector>",
		Short: "Install a connector package locally",
		Long: `Creates the connector's local package directory with generated
documentation. Reinstalling an existing connector refreshes the
documentation and leaves stored credentials untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			e, err := buildEnv(configPath)
			if err != nil {
				return err
			}

			if err := installer.New(e.root).Install(name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Installed connector %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	return cmd
}

func newUninstallCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "uninstall <connector>",
		Short: "Remove a connector package and its credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			e, err := buildEnv(configPath)
			if err != nil {
				return err
			}

			if err := installer.New(e.root).Uninstall(name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uninstalled connector %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	return cmd
}
