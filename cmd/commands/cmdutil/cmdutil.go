// Package cmdutil holds helpers shared by the command groups.
package cmdutil

import (
	"errors"
	"os"
	"strings"

	"nathanbeddoewebdev/panelctl/internal/app"
	"nathanbeddoewebdev/panelctl/internal/auditlog"
	"nathanbeddoewebdev/panelctl/internal/output"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ErrNoApp is returned when a command runs without the root's setup.
var ErrNoApp = errors.New("internal error: application not initialised")

// App returns the App the root command attached to cmd's context.
func App(cmd *cobra.Command) (*app.App, error) {
	a := app.FromContext(cmd.Context())
	if a == nil {
		return nil, ErrNoApp
	}
	return a, nil
}

// AddOutputFlag registers -o/--output on cmd.
func AddOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml")
}

// Format reads the --output flag.
func Format(cmd *cobra.Command) (output.Format, error) {
	raw, _ := cmd.Flags().GetString("output")
	return output.ParseFormat(raw)
}

// Describe attaches the resource a command acts on to its audit entry.
func Describe(cmd *cobra.Command, resourceType, id, name string) {
	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
		ResourceType: resourceType,
		ResourceID:   id,
		ResourceName: name,
	}))
}

// ReadSecret prompts on stderr and reads a line without echo when stdin is
// a terminal; otherwise it reads a plain line from cmd's input.
func ReadSecret(cmd *cobra.Command, prompt string) (string, error) {
	cmd.PrintErr(prompt)
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		cmd.PrintErrln()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	return readLine(cmd)
}

// ReadLine prompts on stderr and reads one line from cmd's input.
func ReadLine(cmd *cobra.Command, prompt string) (string, error) {
	cmd.PrintErr(prompt)
	return readLine(cmd)
}

func readLine(cmd *cobra.Command) (string, error) {
	var b strings.Builder
	buf := make([]byte, 1)
	in := cmd.InOrStdin()
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			b.WriteByte(buf[0])
		}
		if err != nil {
			if b.Len() > 0 {
				break
			}
			return "", err
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func Confirm(cmd *cobra.Command, prompt string) bool {
	answer, err := ReadLine(cmd, prompt+" [y/N]: ")
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}
