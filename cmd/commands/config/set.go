package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/panelctl/internal/config"
	"nathanbeddoewebdev/panelctl/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value. An empty value unsets the key.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  panelctl config set api-base-url https://api.example.com\n" +
			"  panelctl config set log-level debug",
		Args:         cobra.ExactArgs(2),
		RunE:         runSet,
		SilenceUsage: true,
	}

	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	key := util.NormalizeKey(args[0])
	value := strings.TrimSpace(args[1])

	spec := config.Lookup(key)
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := spec.Set(cfg, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", spec.Name, err)
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	if got := spec.Get(cfg); got == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s unset\n", spec.Name)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, got)
	}
	return nil
}
