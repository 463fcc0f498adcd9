package impersonate

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"nathanbeddoewebdev/panelctl/internal/api/apitest"
	"nathanbeddoewebdev/panelctl/internal/app/apptest"
	"nathanbeddoewebdev/panelctl/internal/domain"
	"nathanbeddoewebdev/panelctl/internal/session"
)

func adminAPI(t *testing.T, gotAuth *string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		*gotAuth = r.Header.Get("Authorization")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/admin/users/42/impersonate":
			apitest.JSON(w, http.StatusOK, map[string]any{
				"token": "imp-tok",
				"user":  map[string]any{"id": 42, "name": "Customer", "email": "c@example.com"},
			})
		case r.URL.Path == "/admin/users/43/impersonate":
			apitest.JSON(w, http.StatusForbidden, map[string]string{"message": "This action is unauthorized."})
		default:
			http.NotFound(w, r)
		}
	}
}

func TestStart(t *testing.T) {
	var gotAuth string
	h := apptest.New(t, adminAPI(t, &gotAuth), nil)
	h.App.Session.Login("admin-tok", session.User{ID: "1", Name: "Admin"})

	res := h.Exec(t, NewCommand(), "", "start", "42")
	if res.Err != nil {
		t.Fatalf("start error = %v", res.Err)
	}
	if gotAuth != "Bearer admin-tok" {
		t.Errorf("impersonate request used %q", gotAuth)
	}
	if !strings.Contains(res.Stdout, "Now impersonating Customer") {
		t.Errorf("stdout = %q", res.Stdout)
	}

	cur := h.App.Session.Current()
	if !cur.IsImpersonating || cur.ActiveToken != "imp-tok" || cur.UnderlyingAdminToken != "admin-tok" {
		t.Errorf("session = %+v", cur)
	}
}

func TestStart_Anonymous(t *testing.T) {
	var gotAuth string
	h := apptest.New(t, adminAPI(t, &gotAuth), nil)

	res := h.Exec(t, NewCommand(), "", "start", "42")
	if !errors.Is(res.Err, ErrNotAdmin) {
		t.Errorf("error = %v, want ErrNotAdmin", res.Err)
	}
}

func TestStart_AlreadyImpersonating(t *testing.T) {
	var gotAuth string
	h := apptest.New(t, adminAPI(t, &gotAuth), nil)
	h.App.Session.Login("admin-tok", session.User{ID: "1"})
	h.App.Session.StartImpersonation("admin-tok", "first", session.User{ID: "5"})

	res := h.Exec(t, NewCommand(), "", "start", "42")
	if !errors.Is(res.Err, ErrAlreadyImpersonating) {
		t.Errorf("error = %v, want ErrAlreadyImpersonating", res.Err)
	}
	if got := h.App.Session.ActiveToken(); got != "first" {
		t.Errorf("ActiveToken() = %q, want first", got)
	}
}

func TestStart_ForbiddenKeepsAdminSession(t *testing.T) {
	var gotAuth string
	h := apptest.New(t, adminAPI(t, &gotAuth), nil)
	h.App.Session.Login("admin-tok", session.User{ID: "1"})

	res := h.Exec(t, NewCommand(), "", "start", "43")
	if !errors.Is(res.Err, domain.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", res.Err)
	}
	if h.App.Session.State() != session.Authenticated || h.App.Session.ActiveToken() != "admin-tok" {
		t.Errorf("session changed: %+v", h.App.Session.Current())
	}
}

func TestStart_InvalidID(t *testing.T) {
	var gotAuth string
	h := apptest.New(t, adminAPI(t, &gotAuth), nil)
	h.App.Session.Login("admin-tok", session.User{ID: "1"})

	if res := h.Exec(t, NewCommand(), "", "start", "../1"); res.Err == nil {
		t.Error("expected a validation error")
	}
	if gotAuth != "" {
		t.Error("no request should have been made")
	}
}

func TestStop(t *testing.T) {
	h := apptest.New(t, nil, nil)
	h.App.Session.Login("admin-tok", session.User{ID: "1", Name: "Admin"})
	h.App.Session.StartImpersonation("admin-tok", "imp-tok", session.User{ID: "2"})

	res := h.Exec(t, NewCommand(), "", "stop")
	if res.Err != nil {
		t.Fatalf("stop error = %v", res.Err)
	}
	if !strings.Contains(res.Stdout, "Acting as Admin again") {
		t.Errorf("stdout = %q", res.Stdout)
	}
	if got := h.App.Session.ActiveToken(); got != "admin-tok" {
		t.Errorf("ActiveToken() = %q, want admin-tok", got)
	}

	res = h.Exec(t, NewCommand(), "", "stop")
	if !strings.Contains(res.Stdout, "No impersonation is active.") {
		t.Errorf("second stop stdout = %q", res.Stdout)
	}
}
