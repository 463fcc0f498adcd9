package user

import (
	"fmt"
	"io"

	"nathanbeddoewebdev/panelctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/panelctl/internal/output"
	"nathanbeddoewebdev/panelctl/internal/users"

	"github.com/spf13/cobra"
)

func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		Long: `Create a user account. Without --password the API sends an invitation
email instead.

Examples:
  panelctl user create --name "Ada Lovelace" --email ada@example.com --role customer`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmdutil.Format(cmd)
			if err != nil {
				return err
			}
			a, err := cmdutil.App(cmd)
			if err != nil {
				return err
			}

			opts := users.CreateOpts{}
			opts.Name, _ = cmd.Flags().GetString("name")
			opts.Email, _ = cmd.Flags().GetString("email")
			opts.Role, _ = cmd.Flags().GetString("role")
			opts.PartnerID, _ = cmd.Flags().GetString("partner-id")
			if prompt, _ := cmd.Flags().GetBool("password"); prompt {
				if opts.Password, err = cmdutil.ReadSecret(cmd, "Password for new user: "); err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
			}

			u, err := a.Users().Create(cmd.Context(), opts)
			if err != nil {
				return err
			}
			cmdutil.Describe(cmd, "user", u.ID.String(), u.Email)

			return output.Render(cmd.OutOrStdout(), format, u, func(w io.Writer) {
				printUserDetail(w, u)
			})
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("name", "", "Full name (required)")
	cmd.Flags().String("email", "", "Email address (required)")
	cmd.Flags().String("role", "", "Role: admin, partner or customer")
	cmd.Flags().String("partner-id", "", "Partner the account belongs to")
	cmd.Flags().Bool("password", false, "Prompt for an initial password")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func UpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change fields of a user account",
		Long: `Change fields of a user account. Only flags that are given are sent.

Examples:
  panelctl user update --id 42 --role partner`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmdutil.Format(cmd)
			if err != nil {
				return err
			}
			a, err := cmdutil.App(cmd)
			if err != nil {
				return err
			}

			id, _ := cmd.Flags().GetString("id")
			opts := users.UpdateOpts{
				Name:      changed(cmd, "name"),
				Email:     changed(cmd, "email"),
				Role:      changed(cmd, "role"),
				PartnerID: changed(cmd, "partner-id"),
			}
			if opts == (users.UpdateOpts{}) {
				return fmt.Errorf("nothing to update: pass at least one of --name, --email, --role, --partner-id")
			}

			u, err := a.Users().Update(cmd.Context(), id, opts)
			if err != nil {
				return err
			}
			cmdutil.Describe(cmd, "user", u.ID.String(), u.Email)

			return output.Render(cmd.OutOrStdout(), format, u, func(w io.Writer) {
				printUserDetail(w, u)
			})
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("id", "", "User ID (required)")
	cmd.Flags().String("name", "", "New full name")
	cmd.Flags().String("email", "", "New email address")
	cmd.Flags().String("role", "", "New role")
	cmd.Flags().String("partner-id", "", "New partner")
	cmd.MarkFlagRequired("id")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

// changed returns the flag's value when it was given on the command line.
func changed(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func DeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := cmdutil.App(cmd)
			if err != nil {
				return err
			}

			id, _ := cmd.Flags().GetString("id")
			cmdutil.Describe(cmd, "user", id, "")

			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				if !cmdutil.Confirm(cmd, fmt.Sprintf("Delete user %s?", id)) {
					fmt.Fprintln(cmd.ErrOrStderr(), "User deletion cancelled.")
					return nil
				}
			}

			if err := a.Users().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s deleted.\n", id)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("id", "", "User ID (required)")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	cmd.MarkFlagRequired("id")

	return cmd
}
