package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// FederatedSession is a third-party session provider whose session must be
// ended alongside the local one.
type FederatedSession interface {
	Active() bool
	SignOut(ctx context.Context) error
}

// RevocationSignOut ends the federated session by posting the current token
// to the provider's sign-out endpoint.
type RevocationSignOut struct {
	url    string
	token  func() string
	client *http.Client
}

// NewRevocationSignOut returns a FederatedSession for signOutURL. token is
// read at sign-out time. An empty signOutURL yields a session that is never
// active.
func NewRevocationSignOut(signOutURL string, token func() string) *RevocationSignOut {
	return &RevocationSignOut{
		url:    signOutURL,
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *RevocationSignOut) Active() bool {
	return r.url != "" && r.token != nil && r.token() != ""
}

func (r *RevocationSignOut) SignOut(ctx context.Context) error {
	token := r.token()
	form := url.Values{"token": {token}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("federated sign-out: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("federated sign-out: request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("federated sign-out: unexpected status %d", resp.StatusCode)
	}
	return nil
}
