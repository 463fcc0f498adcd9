package server

import (
	"fmt"

	"nathanbeddoewebdev/panelctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/panelctl/internal/domain"
	"nathanbeddoewebdev/panelctl/internal/servers"

	"github.com/spf13/cobra"
)

// WaitCommand returns a cobra.Command that blocks until a server reaches a
// status.
func WaitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait for a server to reach a status",
		Long: `Poll a server until it reports the given status.

Polling stops early if the server enters the error state or the API starts
rate limiting. Up to three consecutive transient errors are tolerated.

Examples:
  panelctl server wait --id 12345
  panelctl server wait --id 12345 --status stopped --interval 10s`,
		Args:         cobra.NoArgs,
		RunE:         runWait,
		SilenceUsage: true,
	}

	cmd.Flags().String("id", "", "Server ID (required)")
	cmd.MarkFlagRequired("id")
	cmd.Flags().String("status", domain.ServerStatusRunning, "Status to wait for")
	cmd.Flags().Duration("interval", servers.DefaultPollInterval, "Polling interval")

	return cmd
}

func runWait(cmd *cobra.Command, args []string) error {
	a, err := cmdutil.App(cmd)
	if err != nil {
		return err
	}

	id, _ := cmd.Flags().GetString("id")
	status, _ := cmd.Flags().GetString("status")
	interval, _ := cmd.Flags().GetDuration("interval")

	server, err := waitFor(cmd, a.Servers(), id, status, interval)
	if err != nil {
		return err
	}
	cmdutil.Describe(cmd, "server", id, server.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "Server %s is %s.\n", id, server.Status)
	return nil
}
