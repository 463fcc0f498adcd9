package audit

import (
	"errors"

	"nathanbeddoewebdev/panelctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/panelctl/internal/auditlog"

	"github.com/spf13/cobra"
)

// NewCommand returns the "audit" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "View and manage audit history",
		Long: "View a local audit trail of panelctl commands and session changes\n" +
			"(logins, impersonations, logouts) and prune old entries.\n\n" +
			"Audit history is stored locally in ~/.config/panelctl/panelctl.db.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}

var errNoAuditLog = errors.New("audit log is unavailable (see panelctl.log for the reason)")

func repository(cmd *cobra.Command) (auditlog.Repository, error) {
	a, err := cmdutil.App(cmd)
	if err != nil {
		return nil, err
	}
	if a.Audit == nil {
		return nil, errNoAuditLog
	}
	return a.Audit, nil
}
