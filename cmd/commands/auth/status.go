package auth

import (
	"fmt"
	"io"
	"time"

	"nathanbeddoewebdev/panelctl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/panelctl/internal/output"
	"nathanbeddoewebdev/panelctl/internal/session"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// statusReport is the machine-readable form of auth status.
type statusReport struct {
	State          string        `json:"state"`
	User           *session.User `json:"user,omitempty"`
	Impersonating  bool          `json:"impersonating"`
	TokenExpiresAt *time.Time    `json:"token_expires_at,omitempty"`
	TokenExpired   bool          `json:"token_expired"`
	APIBaseURL     string        `json:"api_base_url,omitempty"`
}

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show who is signed in",
		Long: `Show the active identity, whether an impersonation is in effect, and
when the token expires (for JWT tokens).

Example:
  panelctl auth status`,
		Args:         cobra.NoArgs,
		RunE:         runStatus,
		SilenceUsage: true,
	}

	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := cmdutil.Format(cmd)
	if err != nil {
		return err
	}
	a, err := cmdutil.App(cmd)
	if err != nil {
		return err
	}

	current := a.Session.Current()
	report := statusReport{
		State:         a.Session.State().String(),
		User:          current.ActiveUser,
		Impersonating: current.IsImpersonating,
		APIBaseURL:    a.API.BaseURL(),
	}
	if claims, err := session.ParseClaims(current.ActiveToken); err == nil && !claims.ExpiresAt.IsZero() {
		report.TokenExpiresAt = &claims.ExpiresAt
		report.TokenExpired = claims.Expired(time.Now())
	}

	return output.Render(cmd.OutOrStdout(), format, report, func(w io.Writer) {
		printStatus(w, cmd.OutOrStdout(), report, a.Session.AdminToken() != "")
	})
}

func printStatus(w, styleTarget io.Writer, r statusReport, hasAdmin bool) {
	re := lipgloss.NewRenderer(styleTarget)
	ok := re.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	warn := re.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	bad := re.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

	if r.State == session.Anonymous.String() {
		fmt.Fprintf(w, "  Status:\t%s\n", bad.Render("not logged in"))
		fmt.Fprintln(w, "  Next:\tpanelctl auth login")
		return
	}

	state := ok.Render(r.State)
	if r.Impersonating {
		state = warn.Render(r.State)
	}
	fmt.Fprintf(w, "  Status:\t%s\n", state)

	if r.User != nil {
		fmt.Fprintf(w, "  User:\t%s\n", r.User.DisplayName())
		if r.User.Email != "" && r.User.Email != r.User.DisplayName() {
			fmt.Fprintf(w, "  Email:\t%s\n", r.User.Email)
		}
		if r.User.Role != "" {
			fmt.Fprintf(w, "  Role:\t%s\n", r.User.Role)
		}
	}
	if r.Impersonating && hasAdmin {
		fmt.Fprintln(w, "  Admin:\tsession kept, return with 'panelctl impersonate stop'")
	}

	if r.TokenExpiresAt != nil {
		expiry := r.TokenExpiresAt.Local().Format(output.TimeLayout) + " (" + output.Ago(*r.TokenExpiresAt) + ")"
		if r.TokenExpired {
			expiry = bad.Render("expired " + output.Ago(*r.TokenExpiresAt))
		}
		fmt.Fprintf(w, "  Token expires:\t%s\n", expiry)
	}
	if r.APIBaseURL != "" {
		fmt.Fprintf(w, "  API:\t%s\n", r.APIBaseURL)
	}
}
