package cmdutil

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"nathanbeddoewebdev/panelctl/internal/app"
	"nathanbeddoewebdev/panelctl/internal/auditlog"
	"nathanbeddoewebdev/panelctl/internal/output"

	"github.com/spf13/cobra"
)

func newCmd(in string) (*cobra.Command, *bytes.Buffer) {
	var errBuf bytes.Buffer
	cmd := &cobra.Command{Use: "x"}
	cmd.SetIn(strings.NewReader(in))
	cmd.SetErr(&errBuf)
	cmd.SetContext(context.Background())
	return cmd, &errBuf
}

func TestApp_Missing(t *testing.T) {
	cmd, _ := newCmd("")
	if _, err := App(cmd); err != ErrNoApp {
		t.Errorf("App() error = %v, want ErrNoApp", err)
	}

	a := &app.App{}
	cmd.SetContext(app.WithApp(context.Background(), a))
	got, err := App(cmd)
	if err != nil || got != a {
		t.Errorf("App() = %p, %v", got, err)
	}
}

func TestFormat(t *testing.T) {
	cmd, _ := newCmd("")
	AddOutputFlag(cmd)
	if f, err := Format(cmd); err != nil || f != output.FormatTable {
		t.Errorf("default Format() = %q, %v", f, err)
	}
	cmd.Flags().Set("output", "yaml")
	if f, _ := Format(cmd); f != output.FormatYAML {
		t.Errorf("Format() = %q, want yaml", f)
	}
	cmd.Flags().Set("output", "csv")
	if _, err := Format(cmd); err == nil {
		t.Error("expected an error for csv")
	}
}

func TestDescribe(t *testing.T) {
	cmd, _ := newCmd("")
	Describe(cmd, "server", "12", "web-1")
	got := auditlog.MetadataFromContext(cmd.Context())
	if got.ResourceType != "server" || got.ResourceID != "12" || got.ResourceName != "web-1" {
		t.Errorf("metadata = %+v", got)
	}
}

func TestReadSecret_NonTerminal(t *testing.T) {
	cmd, errBuf := newCmd("  hunter2  \nignored\n")
	got, err := ReadSecret(cmd, "Password: ")
	if err != nil {
		t.Fatalf("ReadSecret() error = %v", err)
	}
	if got != "hunter2" {
		t.Errorf("ReadSecret() = %q, want hunter2", got)
	}
	if errBuf.String() != "Password: " {
		t.Errorf("prompt = %q", errBuf.String())
	}
}

func TestReadLine_NoTrailingNewline(t *testing.T) {
	cmd, _ := newCmd("a@example.com")
	got, err := ReadLine(cmd, "Email: ")
	if err != nil || got != "a@example.com" {
		t.Errorf("ReadLine() = %q, %v", got, err)
	}
}

func TestConfirm(t *testing.T) {
	tests := map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "": false}
	for in, want := range tests {
		cmd, _ := newCmd(in)
		if got := Confirm(cmd, "Delete?"); got != want {
			t.Errorf("Confirm(%q) = %v, want %v", in, got, want)
		}
	}
}
