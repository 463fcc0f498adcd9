package server

import (
	"fmt"

	"nathanbeddoewebdev/panelctl/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

func DeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a server",
		Long: `Delete a server. The command asks for confirmation unless --yes is given.

Examples:
  panelctl server delete --id 12345
  panelctl server delete --id 12345 --yes`,
		Args:         cobra.NoArgs,
		RunE:         runDelete,
		SilenceUsage: true,
	}

	cmd.Flags().String("id", "", "Server ID to delete (required)")
	cmd.MarkFlagRequired("id")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := cmdutil.App(cmd)
	if err != nil {
		return err
	}

	serverID, _ := cmd.Flags().GetString("id")
	cmdutil.Describe(cmd, "server", serverID, "")

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		if !cmdutil.Confirm(cmd, fmt.Sprintf("Delete server %s?", serverID)) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Server deletion cancelled.")
			return nil
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Deleting server %s...\n", serverID)
	if err := a.Servers().Delete(cmd.Context(), serverID); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Server %s deleted successfully.\n", serverID)
	return nil
}
