package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"nathanbeddoewebdev/panelctl/internal/config"
	"nathanbeddoewebdev/panelctl/internal/session"
)

func setup(t *testing.T, env map[string]string) (string, Options) {
	t.Helper()
	dir := t.TempDir()
	config.SetPath(filepath.Join(dir, "config.json"))
	t.Cleanup(config.ResetPath)

	return dir, Options{
		Stderr: &bytes.Buffer{},
		Getenv: func(k string) string { return env[k] },
	}
}

func newApp(t *testing.T, opts Options) *App {
	t.Helper()
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNew_EnvConfiguresBaseURL(t *testing.T) {
	_, opts := setup(t, map[string]string{
		config.EnvPublicAPIBaseURL: "https://api.example.com/",
		EnvNoKeyring:               "1",
	})
	a := newApp(t, opts)

	if got := a.API.BaseURL(); got != "https://api.example.com" {
		t.Errorf("BaseURL() = %q, want %q", got, "https://api.example.com")
	}
	if a.Jar == nil {
		t.Fatal("expected a cookie jar")
	}
	if a.Session.State() != session.Anonymous {
		t.Errorf("State() = %v, want anonymous", a.Session.State())
	}
}

func TestNew_CookieJarPersistsLogin(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	dir, opts := setup(t, map[string]string{
		config.EnvAPIBaseURL: srv.URL,
		EnvNoKeyring:         "1",
	})

	first := newApp(t, opts)
	if err := first.Session.Login("stored-token", session.User{ID: "7", Email: "a@example.com"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, cookieFile)); err != nil {
		t.Fatalf("cookie file not written: %v", err)
	}

	second := newApp(t, opts)
	if got := second.Session.ActiveToken(); got != "stored-token" {
		t.Fatalf("ActiveToken() = %q, want stored-token", got)
	}
	if _, err := second.API.Get(context.Background(), "/servers", nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if gotAuth != "Bearer stored-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer stored-token")
	}
}

func TestNew_TokenModeLeavesStoredCredentialsAlone(t *testing.T) {
	dir, opts := setup(t, map[string]string{
		config.EnvAPIBaseURL: "https://api.example.com",
		EnvToken:             "ephemeral",
	})
	a := newApp(t, opts)

	if got := a.Session.ActiveToken(); got != "ephemeral" {
		t.Errorf("ActiveToken() = %q, want ephemeral", got)
	}
	if a.Jar != nil {
		t.Error("token mode should not open the cookie jar")
	}

	a.Session.Logout(context.Background())
	if _, err := os.Stat(filepath.Join(dir, cookieFile)); !os.IsNotExist(err) {
		t.Errorf("cookie file should not exist, stat error = %v", err)
	}
}

func TestNew_OptionTokenWinsOverEnv(t *testing.T) {
	_, opts := setup(t, map[string]string{EnvToken: "from-env"})
	opts.Token = "from-flag"
	a := newApp(t, opts)

	if got := a.Session.ActiveToken(); got != "from-flag" {
		t.Errorf("ActiveToken() = %q, want from-flag", got)
	}
}

func TestNew_SessionTransitionsAreAudited(t *testing.T) {
	_, opts := setup(t, map[string]string{EnvNoKeyring: "1"})
	a := newApp(t, opts)
	if a.Audit == nil {
		t.Fatal("expected an audit repository")
	}

	if err := a.Session.Login("tok", session.User{ID: "42"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	a.Session.Logout(context.Background())

	entries, err := a.Audit.ListByActor("42", 10)
	if err != nil {
		t.Fatalf("ListByActor() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Command != "session logout" || entries[1].Command != "session login" {
		t.Errorf("commands = %q, %q", entries[0].Command, entries[1].Command)
	}
}

func TestNew_VerboseMirrorsLogsToStderr(t *testing.T) {
	_, opts := setup(t, map[string]string{EnvToken: "tok"})
	var stderr bytes.Buffer
	opts.Stderr = &stderr
	opts.Verbose = true
	a := newApp(t, opts)

	a.Logger.Debug("hello from test")
	if !bytes.Contains(stderr.Bytes(), []byte("hello from test")) {
		t.Errorf("stderr = %q, want the debug record", stderr.String())
	}
}

func TestAPIHost(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://api.example.com/v1", "api.example.com"},
		{"http://127.0.0.1:8080", "127.0.0.1"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := apiHost(tt.in); got != tt.want {
			t.Errorf("apiHost(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Error("expected nil from an empty context")
	}
	a := &App{}
	if got := FromContext(WithApp(context.Background(), a)); got != a {
		t.Errorf("FromContext() = %p, want %p", got, a)
	}
}
