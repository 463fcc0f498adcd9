package session

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRevocationSignOut(t *testing.T) {
	var gotToken, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotToken = r.PostForm.Get("token")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	r := NewRevocationSignOut(srv.URL, func() string { return "tok" })
	if !r.Active() {
		t.Fatal("expected Active with URL and token")
	}
	if err := r.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if gotToken != "tok" || gotAuth != "Bearer tok" {
		t.Errorf("server saw token=%q auth=%q", gotToken, gotAuth)
	}
}

func TestRevocationSignOut_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	r := NewRevocationSignOut(srv.URL, func() string { return "tok" })
	if err := r.SignOut(context.Background()); err == nil {
		t.Fatal("expected error for 502")
	}
}

func TestRevocationSignOut_Inactive(t *testing.T) {
	if NewRevocationSignOut("", func() string { return "tok" }).Active() {
		t.Error("no URL should be inactive")
	}
	if NewRevocationSignOut("https://id.example.com/logout", func() string { return "" }).Active() {
		t.Error("no token should be inactive")
	}
}

func TestHintNavigator_PrintsOncePerTarget(t *testing.T) {
	var buf bytes.Buffer
	n := NewHintNavigator(&buf)

	n.Navigate(TargetLogin)
	n.Navigate(TargetLogin)
	n.Navigate(TargetAdmin)

	want := "Session ended. Sign in again with 'panelctl auth login'.\n" +
		"Impersonation ended. Back to your admin account: 'panelctl user list'.\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
