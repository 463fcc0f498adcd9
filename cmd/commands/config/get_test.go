package config

import (
	"strings"
	"testing"

	"nathanbeddoewebdev/panelctl/internal/config"
)

func TestGet_NotSet(t *testing.T) {
	setupTestConfig(t)

	stdout, err := execConfig(t, "get", "api-base-url")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "not set") {
		t.Errorf("expected 'not set', got: %s", stdout)
	}
}

func TestGet_Set(t *testing.T) {
	path := setupTestConfig(t)

	cfg := &config.Config{APIBaseURL: "https://api.example.com"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, err := execConfig(t, "get", "api-base-url")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(stdout) != "https://api.example.com" {
		t.Errorf("expected the URL, got: %s", stdout)
	}
}

func TestGet_All(t *testing.T) {
	path := setupTestConfig(t)
	if err := (&config.Config{LogLevel: "warn"}).SaveTo(path); err != nil {
		t.Fatal(err)
	}

	stdout, err := execConfig(t, "get")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"api-base-url: (not set)", "log-level: warn", "log-format: (not set)"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in:\n%s", want, stdout)
		}
	}
}

func TestGet_UnknownKey(t *testing.T) {
	setupTestConfig(t)

	_, err := execConfig(t, "get", "bogus-key")
	if err == nil || !strings.Contains(err.Error(), "unknown configuration key") {
		t.Errorf("expected 'unknown configuration key' error, got: %v", err)
	}
}
