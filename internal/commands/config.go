package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/bookchat/internal/config"
)

func (a *cli) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Open configuration menu",
		Long:  `Interactive menu to configure bookchat settings.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.deps.TUI.RunConfig()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		Long: `Print the configuration bookchat would use, after the config file,
BOOKCHAT_* environment variables and command-line flags are applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(a.cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintln(a.deps.Stdout, string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config and log file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			logPath, err := config.GetLogPath(a.cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.deps.Stdout, "config: %s\n", configPath)
			fmt.Fprintf(a.deps.Stdout, "log:    %s\n", logPath)
			return nil
		},
	})

	return cmd
}
