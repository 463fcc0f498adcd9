package server

import (
	"fmt"
	"io"

	"nathanbeddoewebdev/panelctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/panelctl/internal/output"
	"nathanbeddoewebdev/panelctl/internal/servers"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List servers",
		Long: `List servers, one page at a time.

Examples:
  panelctl server list
  panelctl server list --status running --search web
  panelctl server list --page 2 -o json`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("page", 0, "Page number")
	cmd.Flags().Int("per-page", 0, "Servers per page")
	cmd.Flags().String("search", "", "Filter by name or hostname")
	cmd.Flags().String("status", "", "Filter by status")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := cmdutil.Format(cmd)
	if err != nil {
		return err
	}
	a, err := cmdutil.App(cmd)
	if err != nil {
		return err
	}

	opts := servers.ListOptions{}
	opts.Page, _ = cmd.Flags().GetInt("page")
	opts.PerPage, _ = cmd.Flags().GetInt("per-page")
	opts.Search, _ = cmd.Flags().GetString("search")
	opts.Status, _ = cmd.Flags().GetString("status")

	page, err := a.Servers().List(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if format == output.FormatTable && len(page.Data) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No servers found.")
		return nil
	}

	return output.Render(cmd.OutOrStdout(), format, page, func(w io.Writer) {
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tTYPE\tPLAN\tLOCATION\tIPv4\tCREATED")
		fmt.Fprintln(w, "--\t----\t------\t----\t----\t--------\t----\t-------")
		for _, s := range page.Data {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				s.ID,
				s.Name,
				s.Status,
				output.Dash(s.Type),
				output.Dash(s.Plan),
				output.Dash(s.Location),
				output.Dash(s.IPv4),
				output.Ago(s.CreatedAt),
			)
		}
		if page.HasMore() {
			fmt.Fprintf(w, "\nPage %d of %d (%d servers). Next: --page %d\n",
				page.Meta.CurrentPage, page.Meta.LastPage, page.Meta.Total, page.Meta.CurrentPage+1)
		}
	})
}
