// Package apitest provides helpers for testing code built on the api
// package against an httptest server.
package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"nathanbeddoewebdev/panelctl/internal/api"
)

// Session is a fixed-token api.Session that counts logouts.
type Session struct {
	mu      sync.Mutex
	token   string
	logouts int
}

// NewSession returns a Session holding token.
func NewSession(token string) *Session { return &Session{token: token} }

func (s *Session) ActiveToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Logout(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logouts++
	s.token = ""
}

// Logouts returns how many times Logout was called.
func (s *Session) Logouts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logouts
}

// NewClient starts a server for handler and returns a client authenticated
// as "test-token". The server is closed when the test ends.
func NewClient(t *testing.T, handler http.Handler) (*api.Client, *Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := NewSession("test-token")
	return api.NewClient(srv.URL, sess), sess
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Request is a request captured by a Recorder.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

// Recorder wraps a handler and captures every request it serves.
type Recorder struct {
	mu       sync.Mutex
	requests []Request
	next     http.Handler
}

// Record returns a Recorder that forwards to next.
func Record(next http.HandlerFunc) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	captured := Request{Method: req.Method, Path: req.URL.Path, Query: req.URL.RawQuery}
	if req.Body != nil {
		var body map[string]any
		if err := json.NewDecoder(req.Body).Decode(&body); err == nil {
			captured.Body = body
		}
	}
	r.mu.Lock()
	r.requests = append(r.requests, captured)
	r.mu.Unlock()
	r.next.ServeHTTP(w, req)
}

// Requests returns a copy of the captured requests.
func (r *Recorder) Requests() []Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Request(nil), r.requests...)
}
