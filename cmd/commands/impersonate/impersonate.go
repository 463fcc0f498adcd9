package impersonate

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/panelctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/panelctl/internal/session"
	"nathanbeddoewebdev/panelctl/internal/util"

	"github.com/spf13/cobra"
)

// ErrNotAdmin is returned when starting an impersonation without an admin
// session to return to.
var ErrNotAdmin = errors.New("impersonation requires a signed-in admin session")

// ErrAlreadyImpersonating is returned when an impersonation is active.
var ErrAlreadyImpersonating = errors.New("already impersonating a user: run 'panelctl impersonate stop' first")

// NewCommand returns the "impersonate" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impersonate",
		Short: "Act as another user",
		Long: `Act as another user while keeping your admin session underneath.

Every request made during an impersonation uses the impersonated user's
token. "impersonate stop" returns to the admin session.`,
	}

	cmd.AddCommand(StartCommand())
	cmd.AddCommand(StopCommand())

	return cmd
}

func StartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <user-id>",
		Short: "Start impersonating a user",
		Long: `Request an impersonation token for a user and make it the active identity.

Example:
  panelctl impersonate start 42`,
		Args:         cobra.ExactArgs(1),
		RunE:         runStart,
		SilenceUsage: true,
	}
	return cmd
}

func runStart(cmd *cobra.Command, args []string) error {
	a, err := cmdutil.App(cmd)
	if err != nil {
		return err
	}

	id := args[0]
	if err := util.ValidateID(id); err != nil {
		return err
	}
	cmdutil.Describe(cmd, "user", id, "")

	switch a.Session.State() {
	case session.Anonymous:
		return ErrNotAdmin
	case session.Impersonating:
		return ErrAlreadyImpersonating
	}

	// The admin token must be captured before the session flips.
	adminToken := a.Session.ActiveToken()

	grant, err := a.Users().Impersonate(cmd.Context(), id)
	if err != nil {
		return err
	}
	profile := grant.Profile()
	if !a.Session.StartImpersonation(adminToken, grant.Token, profile) {
		return fmt.Errorf("could not start impersonating user %s", id)
	}

	cmdutil.Describe(cmd, "user", profile.ID, profile.Email)
	fmt.Fprintf(cmd.OutOrStdout(), "Now impersonating %s. Run 'panelctl impersonate stop' to return.\n", profile.DisplayName())
	return nil
}

func StopCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Return to the admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := cmdutil.App(cmd)
			if err != nil {
				return err
			}
			if !a.Session.StopImpersonation(false) {
				fmt.Fprintln(cmd.OutOrStdout(), "No impersonation is active.")
				return nil
			}
			if u, ok := a.Session.ActiveUser(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Impersonation ended. Acting as %s again.\n", u.DisplayName())
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Impersonation ended.")
			}
			return nil
		},
		SilenceUsage: true,
	}
	return cmd
}
