package auth

import (
	"fmt"

	"nathanbeddoewebdev/panelctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/panelctl/internal/session"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the session and remove stored credentials",
		Long: `End the session and remove every stored credential, including an
active impersonation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := cmdutil.App(cmd)
			if err != nil {
				return err
			}
			if a.Session.State() == session.Anonymous {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			a.Session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
