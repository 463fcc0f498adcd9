package invoice

import (
	"fmt"
	"io"
	"time"

	"nathanbeddoewebdev/panelctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/panelctl/internal/domain"
	"nathanbeddoewebdev/panelctl/internal/invoices"
	"nathanbeddoewebdev/panelctl/internal/output"

	"github.com/spf13/cobra"
)

// NewCommand returns the "invoice" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Browse and download invoices",
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(DownloadCommand())

	return cmd
}

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invoices",
		Long: `List invoices.

Examples:
  panelctl invoice list --status overdue
  panelctl invoice list --user-id 42 -o yaml`,
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

			opts := invoices.ListOptions{}
			opts.Page, _ = cmd.Flags().GetInt("page")
			opts.PerPage, _ = cmd.Flags().GetInt("per-page")
			opts.Status, _ = cmd.Flags().GetString("status")
			opts.UserID, _ = cmd.Flags().GetString("user-id")

			page, err := a.Invoices().List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if format == output.FormatTable && len(page.Data) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No invoices found.")
				return nil
			}

			return output.Render(cmd.OutOrStdout(), format, page, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tNUMBER\tSTATUS\tTOTAL\tISSUED\tDUE")
				fmt.Fprintln(w, "--\t------\t------\t-----\t------\t---")
				for _, inv := range page.Data {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						inv.ID, output.Dash(inv.Number), inv.Status, total(&inv),
						day(inv.IssuedAt), day(inv.DueAt))
				}
				if page.HasMore() {
					fmt.Fprintf(w, "\nPage %d of %d (%d invoices). Next: --page %d\n",
						page.Meta.CurrentPage, page.Meta.LastPage, page.Meta.Total, page.Meta.CurrentPage+1)
				}
			})
		},
		SilenceUsage: true,
	}

	cmd.Flags().Int("page", 0, "Page number")
	cmd.Flags().Int("per-page", 0, "Invoices per page")
	cmd.Flags().String("status", "", "Filter by status: draft, sent, paid, overdue, void")
	cmd.Flags().String("user-id", "", "Filter by customer")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show an invoice with its line items",
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
			inv, err := a.Invoices().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			cmdutil.Describe(cmd, "invoice", inv.ID.String(), inv.Number)

			return output.Render(cmd.OutOrStdout(), format, inv, func(w io.Writer) {
				printInvoiceDetail(w, inv)
			})
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("id", "", "Invoice ID (required)")
	cmd.MarkFlagRequired("id")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func printInvoiceDetail(w io.Writer, inv *domain.Invoice) {
	fmt.Fprintf(w, "  ID:\t%s\n", inv.ID)
	fmt.Fprintf(w, "  Number:\t%s\n", output.Dash(inv.Number))
	fmt.Fprintf(w, "  Status:\t%s\n", inv.Status)
	fmt.Fprintf(w, "  Total:\t%s\n", total(inv))
	if !inv.IssuedAt.IsZero() {
		fmt.Fprintf(w, "  Issued:\t%s\n", inv.IssuedAt.Format("2006-01-02"))
	}
	if !inv.DueAt.IsZero() {
		fmt.Fprintf(w, "  Due:\t%s (%s)\n", inv.DueAt.Format("2006-01-02"), output.Ago(inv.DueAt))
	}
	if inv.PaidAt != nil {
		fmt.Fprintf(w, "  Paid:\t%s\n", inv.PaidAt.Format("2006-01-02"))
	}

	if len(inv.Items) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  DESCRIPTION\tQTY\tUNIT PRICE")
	for _, item := range inv.Items {
		fmt.Fprintf(w, "  %s\t%d\t%s\n", item.Description, item.Quantity, item.UnitPrice)
	}
}

func total(inv *domain.Invoice) string {
	if inv.Currency == "" {
		return inv.Total.String()
	}
	return inv.Total.String() + " " + inv.Currency
}

func day(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
