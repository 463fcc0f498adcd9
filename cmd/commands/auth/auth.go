package auth

import (
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in to the dashboard and inspect the session",
		Long: `Sign in to the dashboard and inspect the session.

Tokens are kept in the OS keychain, with a private cookie file in the
config directory as the fallback.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(LogoutCommand())
	cmd.AddCommand(StatusCommand())

	return cmd
}
