package apikey

import (
	"fmt"
	"io"

	"nathanbeddoewebdev/panelctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/panelctl/internal/apikeys"
	"nathanbeddoewebdev/panelctl/internal/domain"
	"nathanbeddoewebdev/panelctl/internal/output"

	"github.com/spf13/cobra"
)

// NewCommand returns the "apikey" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys for programmatic access",
		Long: `Manage API keys for programmatic access.

A key can be used with 'panelctl auth login --api-key' or, for a single
invocation, with --token / PANELCTL_TOKEN.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(CreateCommand())
	cmd.AddCommand(DeleteCommand())

	return cmd
}

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List API keys",
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

			keys, err := a.APIKeys().List(cmd.Context())
			if err != nil {
				return err
			}
			if format == output.FormatTable && len(keys) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No API keys found.")
				return nil
			}

			return output.Render(cmd.OutOrStdout(), format, keys, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tNAME\tPREFIX\tLAST USED\tEXPIRES\tCREATED")
				fmt.Fprintln(w, "--\t----\t------\t---------\t-------\t-------")
				for _, k := range keys {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						k.ID, k.Name, output.Dash(k.Prefix), output.AgoPtr(k.LastUsedAt),
						expires(k), output.Ago(k.CreatedAt))
				}
			})
		},
		SilenceUsage: true,
	}

	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func expires(k domain.APIKey) string {
	if k.ExpiresAt == nil {
		return "never"
	}
	return output.Ago(*k.ExpiresAt)
}

// createdKey is the printable form of a new key; the secret is shown once.
type createdKey struct {
	domain.APIKey
	Secret string `json:"secret"`
}

func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue a new API key",
		Long: `Issue a new API key. The secret is printed once and cannot be retrieved
again.

Examples:
  panelctl apikey create --name ci
  panelctl apikey create --name deploy --expires-in 90`,
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

			opts := apikeys.CreateOpts{}
			opts.Name, _ = cmd.Flags().GetString("name")
			opts.ExpiresInDays, _ = cmd.Flags().GetInt("expires-in")

			created, err := a.APIKeys().Create(cmd.Context(), opts)
			if err != nil {
				return err
			}
			cmdutil.Describe(cmd, "api_key", created.ID.String(), created.Name)

			v := createdKey{APIKey: created.APIKey, Secret: created.Secret}
			return output.Render(cmd.OutOrStdout(), format, v, func(w io.Writer) {
				fmt.Fprintf(w, "  ID:\t%s\n", created.ID)
				fmt.Fprintf(w, "  Name:\t%s\n", created.Name)
				fmt.Fprintf(w, "  Expires:\t%s\n", expires(created.APIKey))
				fmt.Fprintf(w, "  Secret:\t%s\n", created.Secret)
				fmt.Fprintln(w, "\nStore the secret now; it will not be shown again.")
			})
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("name", "", "Key name (required)")
	cmd.Flags().Int("expires-in", 0, "Days until the key expires (0 for never)")
	cmd.MarkFlagRequired("name")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func DeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Revoke an API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := cmdutil.App(cmd)
			if err != nil {
				return err
			}

			id, _ := cmd.Flags().GetString("id")
			cmdutil.Describe(cmd, "api_key", id, "")

			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				if !cmdutil.Confirm(cmd, fmt.Sprintf("Revoke API key %s?", id)) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Nothing revoked.")
					return nil
				}
			}

			if err := a.APIKeys().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key %s revoked.\n", id)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("id", "", "Key ID (required)")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	cmd.MarkFlagRequired("id")

	return cmd
}
