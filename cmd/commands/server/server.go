package server

import (
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Manage servers",
		Long: `List, inspect, provision and control the servers visible to the
active identity. While impersonating, only that user's servers are shown.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(CreateCommand())
	cmd.AddCommand(StartCommand())
	cmd.AddCommand(StopCommand())
	cmd.AddCommand(RebootCommand())
	cmd.AddCommand(DeleteCommand())
	cmd.AddCommand(WaitCommand())

	return cmd
}
