package apikey

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"nathanbeddoewebdev/panelctl/internal/api/apitest"
	"nathanbeddoewebdev/panelctl/internal/app/apptest"
	"nathanbeddoewebdev/panelctl/internal/session"

	"github.com/google/go-cmp/cmp"
)

func newHarness(t *testing.T, handler http.HandlerFunc) (*apptest.Harness, *apitest.Recorder) {
	t.Helper()
	rec := apitest.Record(handler)
	h := apptest.New(t, rec, nil)
	if err := h.App.Session.Login("tok", session.User{ID: "1"}); err != nil {
		t.Fatal(err)
	}
	return h, rec
}

func TestList(t *testing.T) {
	h, _ := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		apitest.JSON(w, http.StatusOK, map[string]any{"data": []any{
			map[string]any{"id": 3, "name": "ci", "prefix": "pk_3f"},
		}})
	})

	res := h.Exec(t, NewCommand(), "", "list")
	if res.Err != nil {
		t.Fatalf("list error = %v", res.Err)
	}
	for _, want := range []string{"ci", "pk_3f", "never"} {
		if !strings.Contains(res.Stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.Stdout)
		}
	}
}

func TestCreate_JSONIncludesSecret(t *testing.T) {
	h, rec := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		apitest.JSON(w, http.StatusCreated, map[string]any{"id": 4, "name": "deploy", "plain_text_token": "4|abc"})
	})

	res := h.Exec(t, NewCommand(), "", "create", "--name", "deploy", "--expires-in", "90", "-o", "json")
	if res.Err != nil {
		t.Fatalf("create error = %v", res.Err)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(res.Stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, res.Stdout)
	}
	if got["secret"] != "4|abc" || got["name"] != "deploy" {
		t.Errorf("output = %v", got)
	}
	want := map[string]any{"name": "deploy", "expires_in_days": float64(90)}
	if diff := cmp.Diff(want, rec.Requests()[0].Body); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
}

func TestDelete(t *testing.T) {
	h, rec := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	res := h.Exec(t, NewCommand(), "yes\n", "delete", "--id", "4")
	if res.Err != nil {
		t.Fatalf("delete error = %v", res.Err)
	}
	if req := rec.Requests()[0]; req.Method != http.MethodDelete || req.Path != "/api_keys/4" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
}
