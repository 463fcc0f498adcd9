package auth

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/panelctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/panelctl/internal/app"
	"nathanbeddoewebdev/panelctl/internal/session"
	"nathanbeddoewebdev/panelctl/internal/users"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password, or with an API key",
		Long: `Sign in with email and password, or with an API key.

Missing values are prompted for; the password is read without echo.

Examples:
  panelctl auth login --email me@example.com
  panelctl auth login --api-key pk_live_...`,
		Args:         cobra.NoArgs,
		RunE:         runLogin,
		SilenceUsage: true,
	}

	cmd.Flags().String("email", "", "Account email (optional, overrides prompt)")
	cmd.Flags().String("password", "", "Account password (optional, overrides prompt)")
	cmd.Flags().String("api-key", "", "Sign in with an API key instead of a password")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := cmdutil.App(cmd)
	if err != nil {
		return err
	}

	if key, _ := cmd.Flags().GetString("api-key"); strings.TrimSpace(key) != "" {
		return loginWithKey(cmd, a, strings.TrimSpace(key))
	}

	email, _ := cmd.Flags().GetString("email")
	email = strings.TrimSpace(email)
	if email == "" {
		if email, err = cmdutil.ReadLine(cmd, "Email: "); err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}

	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		if password, err = cmdutil.ReadSecret(cmd, "Password: "); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	cmdutil.Describe(cmd, "user", "", email)

	grant, err := a.Users().Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	profile := grant.Profile()
	if err := a.Session.Login(grant.Token, profile); err != nil {
		return err
	}

	cmdutil.Describe(cmd, "user", profile.ID, email)
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", profile.DisplayName())
	return nil
}

// loginWithKey stores key and confirms it by fetching the account it
// belongs to. A rejected key is cleared again by the 401 handling.
func loginWithKey(cmd *cobra.Command, a *app.App, key string) error {
	if err := a.Session.Login(key, session.User{}); err != nil {
		return err
	}

	me, err := a.Users().Me(cmd.Context())
	if err != nil {
		return fmt.Errorf("API key was not accepted: %w", err)
	}
	profile := users.Profile(*me)
	if err := a.Session.Login(key, profile); err != nil {
		return err
	}

	cmdutil.Describe(cmd, "user", profile.ID, me.Email)
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (API key)\n", profile.DisplayName())
	return nil
}
