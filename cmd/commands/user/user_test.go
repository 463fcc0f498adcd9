package user

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"nathanbeddoewebdev/panelctl/internal/api/apitest"
	"nathanbeddoewebdev/panelctl/internal/app/apptest"
	"nathanbeddoewebdev/panelctl/internal/domain"
	"nathanbeddoewebdev/panelctl/internal/session"

	"github.com/google/go-cmp/cmp"
)

func ada() map[string]any {
	return map[string]any{"id": 42, "name": "Ada", "email": "ada@example.com", "role": "customer", "partner_id": "7"}
}

func newHarness(t *testing.T, handler http.HandlerFunc) (*apptest.Harness, *apitest.Recorder) {
	t.Helper()
	rec := apitest.Record(handler)
	h := apptest.New(t, rec, nil)
	if err := h.App.Session.Login("tok", session.User{ID: "1", Role: "admin"}); err != nil {
		t.Fatal(err)
	}
	return h, rec
}

func TestList(t *testing.T) {
	h, rec := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		apitest.JSON(w, http.StatusOK, map[string]any{"data": []any{ada()}})
	})

	res := h.Exec(t, NewCommand(), "", "list", "--role", "customer", "--search", "ada")
	if res.Err != nil {
		t.Fatalf("list error = %v", res.Err)
	}
	for _, want := range []string{"42", "Ada", "ada@example.com", "customer"} {
		if !strings.Contains(res.Stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.Stdout)
		}
	}
	if got := rec.Requests()[0].Query; got != "role=customer&search=ada" {
		t.Errorf("query = %q", got)
	}
}

func TestShow_Me(t *testing.T) {
	h, rec := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		apitest.JSON(w, http.StatusOK, ada())
	})

	res := h.Exec(t, NewCommand(), "", "show", "--me")
	if res.Err != nil {
		t.Fatalf("show error = %v", res.Err)
	}
	if got := rec.Requests()[0].Path; got != "/me" {
		t.Errorf("path = %q, want /me", got)
	}
	if !strings.Contains(res.Stdout, "Partner:") {
		t.Errorf("stdout = %q", res.Stdout)
	}
}

func TestShow_NeedsIDOrMe(t *testing.T) {
	h, rec := newHarness(t, nil)
	if res := h.Exec(t, NewCommand(), "", "show"); res.Err == nil {
		t.Error("expected an error")
	}
	if len(rec.Requests()) != 0 {
		t.Error("no request should be made")
	}
}

func TestCreate_WithPassword(t *testing.T) {
	h, rec := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		apitest.JSON(w, http.StatusCreated, map[string]any{"data": ada()})
	})

	res := h.Exec(t, NewCommand(), "s3cret\n", "create", "--name", "Ada", "--email", "ada@example.com", "--role", "customer", "--password")
	if res.Err != nil {
		t.Fatalf("create error = %v", res.Err)
	}
	want := map[string]any{"name": "Ada", "email": "ada@example.com", "role": "customer", "password": "s3cret"}
	if diff := cmp.Diff(want, rec.Requests()[0].Body); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
}

func TestCreate_FieldErrors(t *testing.T) {
	h, _ := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		apitest.JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The email has already been taken.",
			"errors":  map[string][]string{"email": {"The email has already been taken."}},
		})
	})

	res := h.Exec(t, NewCommand(), "", "create", "--name", "Ada", "--email", "ada@example.com")
	if !errors.Is(res.Err, domain.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", res.Err)
	}
}

func TestUpdate_SendsOnlyChangedFields(t *testing.T) {
	h, rec := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		apitest.JSON(w, http.StatusOK, ada())
	})

	res := h.Exec(t, NewCommand(), "", "update", "--id", "42", "--role", "partner")
	if res.Err != nil {
		t.Fatalf("update error = %v", res.Err)
	}
	req := rec.Requests()[0]
	if req.Method != http.MethodPatch || req.Path != "/users/42" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
	if diff := cmp.Diff(map[string]any{"role": "partner"}, req.Body); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdate_NothingToDo(t *testing.T) {
	h, rec := newHarness(t, nil)
	if res := h.Exec(t, NewCommand(), "", "update", "--id", "42"); res.Err == nil {
		t.Error("expected an error")
	}
	if len(rec.Requests()) != 0 {
		t.Error("no request should be made")
	}
}

func TestDelete(t *testing.T) {
	h, rec := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	res := h.Exec(t, NewCommand(), "", "delete", "--id", "42", "--yes")
	if res.Err != nil {
		t.Fatalf("delete error = %v", res.Err)
	}
	if !strings.Contains(res.Stdout, "User 42 deleted.") {
		t.Errorf("stdout = %q", res.Stdout)
	}
	if req := rec.Requests()[0]; req.Method != http.MethodDelete || req.Path != "/users/42" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
}
