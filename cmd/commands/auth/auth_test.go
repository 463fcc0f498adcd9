package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"nathanbeddoewebdev/panelctl/internal/api/apitest"
	"nathanbeddoewebdev/panelctl/internal/app/apptest"
	"nathanbeddoewebdev/panelctl/internal/session"

	"github.com/golang-jwt/jwt/v5"
)

func loginHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["password"] != "hunter2" {
				apitest.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
				return
			}
			apitest.JSON(w, http.StatusOK, map[string]any{
				"token": "tok-1",
				"user":  map[string]any{"id": 7, "name": "Ada", "email": body["email"], "role": "admin"},
			})
		case "/me":
			if r.Header.Get("Authorization") != "Bearer pk_good" {
				apitest.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
				return
			}
			apitest.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": 9, "email": "bot@example.com"}})
		default:
			http.NotFound(w, r)
		}
	}
}

func TestLogin_Flags(t *testing.T) {
	h := apptest.New(t, loginHandler(t), nil)

	res := h.Exec(t, NewCommand(), "", "login", "--email", "ada@example.com", "--password", "hunter2")
	if res.Err != nil {
		t.Fatalf("login error = %v", res.Err)
	}
	if !strings.Contains(res.Stdout, "Logged in as Ada") {
		t.Errorf("stdout = %q", res.Stdout)
	}
	if got := h.App.Session.ActiveToken(); got != "tok-1" {
		t.Errorf("ActiveToken() = %q, want tok-1", got)
	}
	u, ok := h.App.Session.ActiveUser()
	if !ok || u.ID != "7" || u.Role != "admin" {
		t.Errorf("ActiveUser() = %+v, %v", u, ok)
	}
}

func TestLogin_Prompts(t *testing.T) {
	h := apptest.New(t, loginHandler(t), nil)

	res := h.Exec(t, NewCommand(), "ada@example.com\nhunter2\n", "login")
	if res.Err != nil {
		t.Fatalf("login error = %v", res.Err)
	}
	if !strings.Contains(res.Stderr, "Email: ") || !strings.Contains(res.Stderr, "Password: ") {
		t.Errorf("stderr = %q, want both prompts", res.Stderr)
	}
	if h.App.Session.State() != session.Authenticated {
		t.Errorf("State() = %v", h.App.Session.State())
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	h := apptest.New(t, loginHandler(t), nil)

	res := h.Exec(t, NewCommand(), "", "login", "--email", "ada@example.com", "--password", "nope")
	if res.Err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(res.Err.Error(), "Invalid credentials") {
		t.Errorf("error = %v", res.Err)
	}
	if h.App.Session.State() != session.Anonymous {
		t.Errorf("State() = %v, want anonymous", h.App.Session.State())
	}
}

func TestLogin_InvalidEmailNeverCallsAPI(t *testing.T) {
	calls := 0
	h := apptest.New(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}), nil)

	res := h.Exec(t, NewCommand(), "", "login", "--email", "not-an-email", "--password", "x")
	if res.Err == nil {
		t.Fatal("expected a validation error")
	}
	if calls != 0 {
		t.Errorf("API called %d times", calls)
	}
}

func TestLogin_APIKey(t *testing.T) {
	h := apptest.New(t, loginHandler(t), nil)

	res := h.Exec(t, NewCommand(), "", "login", "--api-key", "pk_good")
	if res.Err != nil {
		t.Fatalf("login error = %v", res.Err)
	}
	if !strings.Contains(res.Stdout, "bot@example.com (API key)") {
		t.Errorf("stdout = %q", res.Stdout)
	}
	u, _ := h.App.Session.ActiveUser()
	if u.ID != "9" {
		t.Errorf("ActiveUser().ID = %q, want 9", u.ID)
	}
}

func TestLogin_RejectedAPIKeyIsCleared(t *testing.T) {
	h := apptest.New(t, loginHandler(t), nil)

	res := h.Exec(t, NewCommand(), "", "login", "--api-key", "pk_bad")
	if res.Err == nil {
		t.Fatal("expected an error")
	}
	if got := h.App.Session.ActiveToken(); got != "" {
		t.Errorf("ActiveToken() = %q, want empty", got)
	}
	if !strings.Contains(h.Hints.String(), "panelctl auth login") {
		t.Errorf("hints = %q, want a login hint", h.Hints.String())
	}
}

func TestLogout(t *testing.T) {
	h := apptest.New(t, nil, nil)
	if err := h.App.Session.Login("tok", session.User{ID: "1"}); err != nil {
		t.Fatal(err)
	}

	res := h.Exec(t, NewCommand(), "", "logout")
	if res.Err != nil {
		t.Fatalf("logout error = %v", res.Err)
	}
	if !strings.Contains(res.Stdout, "Logged out.") {
		t.Errorf("stdout = %q", res.Stdout)
	}
	if h.App.Session.State() != session.Anonymous {
		t.Errorf("State() = %v", h.App.Session.State())
	}

	res = h.Exec(t, NewCommand(), "", "logout")
	if !strings.Contains(res.Stdout, "Not logged in.") {
		t.Errorf("second logout stdout = %q", res.Stdout)
	}
}

func TestStatus_Anonymous(t *testing.T) {
	h := apptest.New(t, nil, nil)

	res := h.Exec(t, NewCommand(), "", "status")
	if res.Err != nil {
		t.Fatalf("status error = %v", res.Err)
	}
	if !strings.Contains(res.Stdout, "not logged in") {
		t.Errorf("stdout = %q", res.Stdout)
	}
}

func TestStatus_JSONWithTokenExpiry(t *testing.T) {
	h := apptest.New(t, nil, nil)

	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if err := h.App.Session.Login(token, session.User{ID: "7", Name: "Ada"}); err != nil {
		t.Fatal(err)
	}

	res := h.Exec(t, NewCommand(), "", "status", "-o", "json")
	if res.Err != nil {
		t.Fatalf("status error = %v", res.Err)
	}

	var got statusReport
	if err := json.Unmarshal([]byte(res.Stdout), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", res.Stdout, err)
	}
	if got.State != "authenticated" || got.User == nil || got.User.Name != "Ada" {
		t.Errorf("report = %+v", got)
	}
	if got.TokenExpiresAt == nil || !got.TokenExpiresAt.Equal(exp) {
		t.Errorf("TokenExpiresAt = %v, want %v", got.TokenExpiresAt, exp)
	}
	if got.TokenExpired {
		t.Error("token should not be expired")
	}
}

func TestStatus_Impersonating(t *testing.T) {
	h := apptest.New(t, nil, nil)
	h.App.Session.Login("admin-tok", session.User{ID: "1", Name: "Admin"})
	if !h.App.Session.StartImpersonation("admin-tok", "imp-tok", session.User{ID: "2", Name: "Customer"}) {
		t.Fatal("StartImpersonation() = false")
	}

	res := h.Exec(t, NewCommand(), "", "status")
	if res.Err != nil {
		t.Fatalf("status error = %v", res.Err)
	}
	for _, want := range []string{"impersonating", "Customer", "panelctl impersonate stop"} {
		if !strings.Contains(res.Stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.Stdout)
		}
	}
}
