package apikeys

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"nathanbeddoewebdev/panelctl/internal/api/apitest"
	"nathanbeddoewebdev/panelctl/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func TestList(t *testing.T) {
	client, _ := apitest.NewClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api_keys" {
			t.Errorf("path = %s", r.URL.Path)
		}
		apitest.JSON(w, http.StatusOK, map[string]any{"data": []any{
			map[string]any{"id": 1, "name": "ci", "prefix": "pk_ab12", "last_used_at": "2026-05-01T10:00:00Z"},
			map[string]any{"id": 2, "name": "backup"},
		}})
	}))

	keys, err := NewService(client).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var names []string
	for _, k := range keys {
		names = append(names, k.Name)
	}
	if diff := cmp.Diff([]string{"ci", "backup"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if keys[0].LastUsedAt == nil || keys[1].LastUsedAt != nil {
		t.Errorf("last used = %v / %v", keys[0].LastUsedAt, keys[1].LastUsedAt)
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name  string
		field string
	}{
		{"secret", "secret"},
		{"key", "key"},
		{"sanctum token", "plain_text_token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := apitest.Record(func(w http.ResponseWriter, r *http.Request) {
				apitest.JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{
					"id": 9, "name": "deploy", tt.field: "pk_live_abcdef",
				}})
			})
			client, _ := apitest.NewClient(t, rec)

			key, err := NewService(client).Create(context.Background(), CreateOpts{Name: "deploy", ExpiresInDays: 30})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if key.Secret != "pk_live_abcdef" || key.ID != "9" || key.Name != "deploy" {
				t.Errorf("key = %+v", key)
			}

			want := apitest.Request{
				Method: http.MethodPost,
				Path:   "/api_keys",
				Body:   map[string]any{"name": "deploy", "expires_in_days": float64(30)},
			}
			if diff := cmp.Diff(want, rec.Requests()[0]); diff != "" {
				t.Errorf("request mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCreate_NoSecret(t *testing.T) {
	client, _ := apitest.NewClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apitest.JSON(w, http.StatusCreated, map[string]any{"id": 9, "name": "deploy"})
	}))

	if _, err := NewService(client).Create(context.Background(), CreateOpts{Name: "deploy"}); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}

func TestCreate_RequiresName(t *testing.T) {
	client, _ := apitest.NewClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	if _, err := NewService(client).Create(context.Background(), CreateOpts{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestDelete(t *testing.T) {
	client, _ := apitest.NewClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api_keys/9" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		apitest.JSON(w, http.StatusNotFound, map[string]any{"message": "Key not found"})
	}))

	if err := NewService(client).Delete(context.Background(), "9"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
