package cmd

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"nathanbeddoewebdev/panelctl/cmd/commands/apikey"
	"nathanbeddoewebdev/panelctl/cmd/commands/audit"
	"nathanbeddoewebdev/panelctl/cmd/commands/auth"
	cfgcmd "nathanbeddoewebdev/panelctl/cmd/commands/config"
	"nathanbeddoewebdev/panelctl/cmd/commands/impersonate"
	"nathanbeddoewebdev/panelctl/cmd/commands/invoice"
	"nathanbeddoewebdev/panelctl/cmd/commands/server"
	"nathanbeddoewebdev/panelctl/cmd/commands/user"
	"nathanbeddoewebdev/panelctl/internal/app"
	"nathanbeddoewebdev/panelctl/internal/auditlog"
	"nathanbeddoewebdev/panelctl/internal/output"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
// base seeds the Options every App is built with; flags fill in the rest.
func rootCmd(base app.Options) *cobra.Command {
	var (
		token   string
		verbose bool
	)

	var cmd = &cobra.Command{
		Use:   "panelctl",
		Short: "A CLI for the server management dashboard",
		Long: `panelctl signs in to the server management dashboard and drives its API:
servers, users, invoices and API keys. Administrators can impersonate a
customer to see exactly what they see, then return to their own session.

Quick start:
  panelctl auth login                 # Sign in with email and password
  panelctl server list                # List servers
  panelctl impersonate start 42       # Act as user 42 (admins only)
  panelctl impersonate stop           # Return to your own session`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.FromContext(cmd.Context()) != nil || skipsApp(cmd) {
				return nil
			}
			opts := base
			opts.Verbose = opts.Verbose || verbose
			if token != "" {
				opts.Token = token
			}
			a, err := app.New(opts)
			if err != nil {
				return err
			}
			a.Logger.Debug("running command", "command", cmd.CommandPath())
			cmd.SetContext(app.WithApp(cmd.Context(), a))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mirror debug logs to stderr")
	cmd.PersistentFlags().StringVar(&token, "token", "",
		"Use this bearer token for one invocation without touching stored credentials (or set "+app.EnvToken+")")

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(impersonate.NewCommand())
	cmd.AddCommand(server.NewCommand())
	cmd.AddCommand(user.NewCommand())
	cmd.AddCommand(invoice.NewCommand())
	cmd.AddCommand(apikey.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(audit.NewCommand())

	return cmd
}

// skipsApp reports whether cmd runs without an App: help, shell completion
// and the config commands, which must work even when the config is broken.
func skipsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd, "config":
			return true
		}
	}
	return false
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, app.Options{}))
}

// run executes args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, base app.Options) int {
	if base.Stderr == nil {
		base.Stderr = stderr
	}
	root := rootCmd(base)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	started := time.Now()
	executed, err := root.ExecuteContextC(ctx)

	if executed != nil {
		if a := app.FromContext(executed.Context()); a != nil {
			recordRun(executed, a, args, started, err)
			defer a.Close()
		}
	}

	if err != nil {
		output.PrintError(stderr, err)
		return 1
	}
	return 0
}

// recordRun writes the finished command to the audit log. Reading the log
// is not itself audited.
func recordRun(cmd *cobra.Command, a *app.App, args []string, started time.Time, runErr error) {
	if a.Audit == nil || strings.HasPrefix(cmd.CommandPath(), cmd.Root().Name()+" audit") {
		return
	}

	cr := auditlog.CommandRun{
		Command: cmd.CommandPath(),
		Args:    args,
		Started: started,
		Err:     runErr,
	}
	if u, ok := a.Session.ActiveUser(); ok {
		cr.Actor = u.ID
	}
	if a.Session.IsImpersonating() {
		if acct, ok := a.Session.AccountUser(); ok {
			cr.Impersonator = acct.ID
		}
	}

	if err := a.Audit.Save(cr.Entry(cmd.Context())); err != nil {
		a.Logger.Warn("failed to record command", "command", cr.Command, "error", err)
	}
}
