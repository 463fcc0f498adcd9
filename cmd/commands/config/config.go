package config

import (
	"nathanbeddoewebdev/panelctl/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage panelctl configuration",
		Long: "View and modify persistent panelctl settings.\n\n" +
			"Configuration is stored at ~/.config/panelctl/config.json.\n" +
			"Environment variables (" + config.EnvAPIBaseURL + ", " + config.EnvLogLevel + ", ...) take precedence.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
