package server

import (
	"fmt"
	"io"

	"nathanbeddoewebdev/panelctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/panelctl/internal/domain"
	"nathanbeddoewebdev/panelctl/internal/output"
	"nathanbeddoewebdev/panelctl/internal/servers"

	"github.com/spf13/cobra"
)

// CreateCommand returns a cobra.Command that provisions a server.
func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Provision a new server",
		Long: `Provision a new server.

Admins and partners may provision on behalf of a customer with --user-id.

Examples:
  panelctl server create --name web-1 --plan vps-small
  panelctl server create --name db-1 --plan dedicated-xl --type dedicated --location fsn1 --wait`,
		Args:         cobra.NoArgs,
		RunE:         runCreate,
		SilenceUsage: true,
	}

	cmd.Flags().String("name", "", "Server name (required)")
	cmd.Flags().String("plan", "", "Plan identifier (required)")
	cmd.Flags().String("type", "vps", "Server type: vps or dedicated")
	cmd.Flags().String("location", "", "Location (optional, API picks a default)")
	cmd.Flags().String("image", "", "OS image")
	cmd.Flags().String("user-id", "", "Owner of the server (admin or partner only)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("plan")
	addWaitFlags(cmd)
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	format, err := cmdutil.Format(cmd)
	if err != nil {
		return err
	}
	a, err := cmdutil.App(cmd)
	if err != nil {
		return err
	}

	opts := servers.CreateOpts{}
	opts.Name, _ = cmd.Flags().GetString("name")
	opts.Plan, _ = cmd.Flags().GetString("plan")
	opts.Type, _ = cmd.Flags().GetString("type")
	opts.Location, _ = cmd.Flags().GetString("location")
	opts.Image, _ = cmd.Flags().GetString("image")
	opts.UserID, _ = cmd.Flags().GetString("user-id")

	location := opts.Location
	if location == "" {
		location = "(auto)"
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Creating server %q [type=%s, plan=%s, location=%s]\n",
		opts.Name, opts.Type, opts.Plan, location)

	svc := a.Servers()
	server, err := svc.Create(cmd.Context(), opts)
	if err != nil {
		return err
	}
	cmdutil.Describe(cmd, "server", server.ID.String(), server.Name)

	if wait, _ := cmd.Flags().GetBool("wait"); wait && server.Status != domain.ServerStatusRunning {
		interval, _ := cmd.Flags().GetDuration("interval")
		ready, err := waitFor(cmd, svc, server.ID.String(), domain.ServerStatusRunning, interval)
		if err != nil {
			return err
		}
		server = ready
	}

	return output.Render(cmd.OutOrStdout(), format, server, func(w io.Writer) {
		printServerDetail(w, server)
	})
}
