package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"nathanbeddoewebdev/panelctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/panelctl/internal/domain"
	"nathanbeddoewebdev/panelctl/internal/servers"

	"github.com/spf13/cobra"
)

// lifecycleAction describes one of the power commands.
type lifecycleAction struct {
	name     string // verb used in the command name
	progress string // "Starting"
	done     string // "started"
	target   string // status waited for
	call     func(s *servers.Service, ctx context.Context, id string) (*domain.Server, error)
}

var (
	startAction = lifecycleAction{
		name: "start", progress: "Starting", done: "started",
		target: domain.ServerStatusRunning, call: (*servers.Service).Start,
	}
	stopAction = lifecycleAction{
		name: "stop", progress: "Stopping", done: "stopped",
		target: domain.ServerStatusStopped, call: (*servers.Service).Stop,
	}
	rebootAction = lifecycleAction{
		name: "reboot", progress: "Rebooting", done: "rebooted",
		target: domain.ServerStatusRunning, call: (*servers.Service).Reboot,
	}
)

// StartCommand returns a cobra.Command that powers on a server.
func StartCommand() *cobra.Command {
	return actionCommand(startAction, "Start a server", `Power on a stopped server.

With --wait the command polls until the server reports "running".

Examples:
  panelctl server start --id 12345
  panelctl server start --id 12345 --wait`)
}

// StopCommand returns a cobra.Command that powers off a server.
func StopCommand() *cobra.Command {
	return actionCommand(stopAction, "Stop a server", `Power off a running server.

Examples:
  panelctl server stop --id 12345 --wait`)
}

// RebootCommand returns a cobra.Command that restarts a server.
func RebootCommand() *cobra.Command {
	return actionCommand(rebootAction, "Reboot a server", `Restart a server.

Examples:
  panelctl server reboot --id 12345 --wait`)
}

func actionCommand(action lifecycleAction, short, long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   action.name,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, action)
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("id", "", "Server ID (required)")
	cmd.MarkFlagRequired("id")
	addWaitFlags(cmd)

	return cmd
}

func addWaitFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("wait", false, "Wait until the server reaches the expected status")
	cmd.Flags().Duration("interval", servers.DefaultPollInterval, "Polling interval used with --wait")
}

func runAction(cmd *cobra.Command, action lifecycleAction) error {
	a, err := cmdutil.App(cmd)
	if err != nil {
		return err
	}

	id, _ := cmd.Flags().GetString("id")
	cmdutil.Describe(cmd, "server", id, "")

	fmt.Fprintf(cmd.ErrOrStderr(), "%s server %s...\n", action.progress, id)

	svc := a.Servers()
	server, err := action.call(svc, cmd.Context(), id)
	if err != nil {
		return err
	}
	if server != nil {
		cmdutil.Describe(cmd, "server", id, server.Name)
	}

	if wait, _ := cmd.Flags().GetBool("wait"); wait {
		interval, _ := cmd.Flags().GetDuration("interval")
		if _, err := waitFor(cmd, svc, id, action.target, interval); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Server %s %s successfully.\n", id, action.done)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Server %s %s requested.\n", id, action.name)
	return nil
}

// waitFor polls until target is reached or the user interrupts.
func waitFor(cmd *cobra.Command, svc *servers.Service, id, target string, interval time.Duration) (*domain.Server, error) {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	fmt.Fprintf(cmd.ErrOrStderr(), "Waiting for server %s to be %s...\n", id, target)
	return svc.WaitForStatus(ctx, id, target, interval, cmd.ErrOrStderr())
}
