package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(&Config{}, cfg); diff != "" {
		t.Errorf("expected zero config (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panelctl", "config.json")

	want := &Config{
		APIBaseURL: "https://api.example.com",
		SignOutURL: "https://id.example.com/revoke",
		LogLevel:   "debug",
		LogFormat:  "json",
	}
	if err := want.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deep")
	path := filepath.Join(dir, "config.json")

	cfg := &Config{APIBaseURL: "https://api.example.com"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSave_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	first := &Config{APIBaseURL: "https://old.example.com"}
	if err := first.SaveTo(path); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	second := &Config{APIBaseURL: "https://new.example.com"}
	if err := second.SaveTo(path); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got.APIBaseURL != "https://new.example.com" {
		t.Errorf("expected APIBaseURL %q, got %q", "https://new.example.com", got.APIBaseURL)
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Config
	}{
		{
			name: "no overrides",
			env:  nil,
			want: Config{APIBaseURL: "https://file.example.com", LogLevel: "warn"},
		},
		{
			name: "panelctl variable wins",
			env: map[string]string{
				EnvAPIBaseURL:       "https://env.example.com",
				EnvPublicAPIBaseURL: "https://public.example.com",
			},
			want: Config{APIBaseURL: "https://env.example.com", LogLevel: "warn"},
		},
		{
			name: "public variable as fallback",
			env:  map[string]string{EnvPublicAPIBaseURL: "https://public.example.com"},
			want: Config{APIBaseURL: "https://public.example.com", LogLevel: "warn"},
		},
		{
			name: "blank values ignored",
			env:  map[string]string{EnvAPIBaseURL: "  ", EnvLogLevel: "debug", EnvSignOutURL: "https://id.example.com/revoke"},
			want: Config{APIBaseURL: "https://file.example.com", SignOutURL: "https://id.example.com/revoke", LogLevel: "debug"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{APIBaseURL: "https://file.example.com", LogLevel: "warn"}
			cfg.ApplyEnv(func(k string) string { return tt.env[k] })
			if diff := cmp.Diff(tt.want, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDir_FollowsPathOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom", "config.json")
	SetPath(path)
	t.Cleanup(ResetPath)

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir failed: %v", err)
	}
	if dir != filepath.Dir(path) {
		t.Errorf("Dir = %q, want %q", dir, filepath.Dir(path))
	}
}
