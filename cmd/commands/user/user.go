package user

import (
	"fmt"
	"io"

	"nathanbeddoewebdev/panelctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/panelctl/internal/domain"
	"nathanbeddoewebdev/panelctl/internal/output"
	"nathanbeddoewebdev/panelctl/internal/users"

	"github.com/spf13/cobra"
)

// NewCommand returns the "user" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
		Long: `Manage user accounts. Listing and creating accounts requires an admin or
partner session.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(CreateCommand())
	cmd.AddCommand(UpdateCommand())
	cmd.AddCommand(DeleteCommand())

	return cmd
}

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Long: `List user accounts.

Examples:
  panelctl user list --role customer
  panelctl user list --search ada -o json`,
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

			opts := users.ListOptions{}
			opts.Page, _ = cmd.Flags().GetInt("page")
			opts.PerPage, _ = cmd.Flags().GetInt("per-page")
			opts.Search, _ = cmd.Flags().GetString("search")
			opts.Role, _ = cmd.Flags().GetString("role")

			page, err := a.Users().List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if format == output.FormatTable && len(page.Data) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No users found.")
				return nil
			}

			return output.Render(cmd.OutOrStdout(), format, page, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tPARTNER\tCREATED")
				fmt.Fprintln(w, "--\t----\t-----\t----\t-------\t-------")
				for _, u := range page.Data {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						u.ID, output.Dash(u.Name), u.Email, output.Dash(u.Role),
						output.Dash(u.PartnerID.String()), output.Ago(u.CreatedAt))
				}
				if page.HasMore() {
					fmt.Fprintf(w, "\nPage %d of %d (%d users). Next: --page %d\n",
						page.Meta.CurrentPage, page.Meta.LastPage, page.Meta.Total, page.Meta.CurrentPage+1)
				}
			})
		},
		SilenceUsage: true,
	}

	cmd.Flags().Int("page", 0, "Page number")
	cmd.Flags().Int("per-page", 0, "Users per page")
	cmd.Flags().String("search", "", "Filter by name or email")
	cmd.Flags().String("role", "", "Filter by role")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a user, or the signed-in account with --me",
		Args:  cobra.NoArgs,
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
			me, _ := cmd.Flags().GetBool("me")

			var u *domain.User
			switch {
			case me:
				u, err = a.Users().Me(cmd.Context())
			case id != "":
				u, err = a.Users().Get(cmd.Context(), id)
			default:
				return fmt.Errorf("either --id or --me is required")
			}
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

	cmd.Flags().String("id", "", "User ID")
	cmd.Flags().Bool("me", false, "Show the account of the active identity")
	cmd.MarkFlagsMutuallyExclusive("id", "me")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func printUserDetail(w io.Writer, u *domain.User) {
	fmt.Fprintf(w, "  ID:\t%s\n", u.ID)
	fmt.Fprintf(w, "  Name:\t%s\n", output.Dash(u.Name))
	fmt.Fprintf(w, "  Email:\t%s\n", u.Email)
	fmt.Fprintf(w, "  Role:\t%s\n", output.Dash(u.Role))
	if u.PartnerID != "" {
		fmt.Fprintf(w, "  Partner:\t%s\n", u.PartnerID)
	}
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  Created:\t%s\n", u.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	}
}
