// Package apptest builds an App against a test server and runs commands
// under it.
package apptest

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/panelctl/internal/app"
	"nathanbeddoewebdev/panelctl/internal/config"

	"github.com/spf13/cobra"
)

// Env is the environment seen by the App. BaseURL is filled in by New.
type Env map[string]string

// Harness bundles an App with the buffer its hints are written to.
type Harness struct {
	App    *app.App
	Server *httptest.Server
	Hints  *bytes.Buffer
	Dir    string
}

// New starts handler on a test server and builds an App pointed at it,
// with the keychain disabled and all state under a temp directory.
// A nil handler answers 404 to everything.
func New(t *testing.T, handler http.Handler, env Env) *Harness {
	t.Helper()
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	config.SetPath(filepath.Join(dir, "config.json"))
	t.Cleanup(config.ResetPath)

	vars := map[string]string{
		config.EnvAPIBaseURL: srv.URL,
		app.EnvNoKeyring:     "1",
	}
	for k, v := range env {
		vars[k] = v
	}

	var hints bytes.Buffer
	a, err := app.New(app.Options{
		Stderr: &hints,
		Getenv: func(k string) string { return vars[k] },
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })

	return &Harness{App: a, Server: srv, Hints: &hints, Dir: dir}
}

// Result is the outcome of Exec.
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// Exec runs cmd with args under h's App. stdin feeds prompts.
func (h *Harness) Exec(t *testing.T, cmd *cobra.Command, stdin string, args ...string) Result {
	t.Helper()
	var out, errBuf bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(app.WithApp(context.Background(), h.App))
	return Result{Stdout: out.String(), Stderr: errBuf.String(), Err: err}
}
