package audit

import (
	"fmt"
	"io"
	"time"

	"nathanbeddoewebdev/panelctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/panelctl/internal/auditlog"
	"nathanbeddoewebdev/panelctl/internal/output"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries",
		Long: `List recent audit entries stored locally.

Examples:
  panelctl audit list
  panelctl audit list --limit 50
  panelctl audit list --command "panelctl server delete"
  panelctl audit list --actor 42
  panelctl audit list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().String("command", "", "Filter by exact command path")
	cmd.Flags().String("actor", "", "Filter by acting user ID")
	cmd.MarkFlagsMutuallyExclusive("command", "actor")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	commandFilter, _ := cmd.Flags().GetString("command")
	actorFilter, _ := cmd.Flags().GetString("actor")
	format, err := cmdutil.Format(cmd)
	if err != nil {
		return err
	}

	repo, err := repository(cmd)
	if err != nil {
		return err
	}

	var entries []auditlog.AuditEntry
	switch {
	case commandFilter != "":
		entries, err = repo.ListByCommand(commandFilter, limit)
	case actorFilter != "":
		entries, err = repo.ListByActor(actorFilter, limit)
	default:
		entries, err = repo.List(limit)
	}
	if err != nil {
		return err
	}

	if format == output.FormatTable && len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit entries found.")
		return nil
	}

	return output.Render(cmd.OutOrStdout(), format, entries, func(w io.Writer) {
		fmt.Fprintln(w, "TIME\tCOMMAND\tACTOR\tOUTCOME\tDURATION\tRESOURCE\tDETAIL")
		fmt.Fprintln(w, "----\t-------\t-----\t-------\t--------\t--------\t------")
		for _, entry := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				entry.Timestamp.Local().Format(output.TimeLayout),
				entry.Command,
				formatActor(entry),
				entry.Outcome,
				formatDuration(entry.DurationMs),
				formatResource(entry),
				output.Dash(entry.Detail),
			)
		}
	})
}

// formatActor shows "42 (via 1)" for commands run while impersonating.
func formatActor(entry auditlog.AuditEntry) string {
	actor := output.Dash(entry.Actor)
	if entry.Impersonator != "" {
		actor += " (via " + entry.Impersonator + ")"
	}
	return actor
}

func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	d := time.Duration(ms) * time.Millisecond
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

func formatResource(entry auditlog.AuditEntry) string {
	if entry.ResourceType == "" && entry.ResourceID == "" && entry.ResourceName == "" {
		return "-"
	}

	resource := entry.ResourceType
	if entry.ResourceID != "" {
		if resource != "" {
			resource += ":" + entry.ResourceID
		} else {
			resource = entry.ResourceID
		}
	}
	if entry.ResourceName != "" {
		if resource != "" {
			resource += " (" + entry.ResourceName + ")"
		} else {
			resource = entry.ResourceName
		}
	}
	return resource
}
