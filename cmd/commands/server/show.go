package server

import (
	"io"

	"nathanbeddoewebdev/panelctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/panelctl/internal/output"

	"github.com/spf13/cobra"
)

// ShowCommand returns a cobra.Command that displays details for a single server.
func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show details for a server",
		Long: `Display detailed information about a single server.

Examples:
  panelctl server show --id 12345
  panelctl server show --id 12345 -o yaml`,
		Args:         cobra.NoArgs,
		RunE:         runShow,
		SilenceUsage: true,
	}

	cmd.Flags().String("id", "", "Server ID to show (required)")
	cmd.MarkFlagRequired("id")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	format, err := cmdutil.Format(cmd)
	if err != nil {
		return err
	}
	a, err := cmdutil.App(cmd)
	if err != nil {
		return err
	}

	id, _ := cmd.Flags().GetString("id")
	server, err := a.Servers().Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	cmdutil.Describe(cmd, "server", server.ID.String(), server.Name)

	return output.Render(cmd.OutOrStdout(), format, server, func(w io.Writer) {
		printServerDetail(w, server)
	})
}
