// Package apikeys wraps the API key endpoints.
package apikeys

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"nathanbeddoewebdev/panelctl/internal/api"
	"nathanbeddoewebdev/panelctl/internal/domain"
)

// Requester is the subset of *api.Client the service needs.
type Requester interface {
	Get(ctx context.Context, endpoint string, query url.Values) (*api.Response, error)
	Post(ctx context.Context, endpoint string, body any) (*api.Response, error)
	Delete(ctx context.Context, endpoint string) (*api.Response, error)
}

// ErrNoSecret is returned when a create response omits the key secret.
var ErrNoSecret = errors.New("response did not include the key secret")

// CreateOpts is the payload for issuing a key.
type CreateOpts struct {
	Name          string `json:"name"`
	ExpiresInDays int    `json:"expires_in_days,omitempty"`
}

// Created is a freshly issued key. Secret is not retrievable again.
type Created struct {
	domain.APIKey
	Secret string
}

// Service calls the API key endpoints.
type Service struct {
	api Requester
}

// NewService returns a Service that issues requests through r.
func NewService(r Requester) *Service {
	return &Service{api: r}
}

// List returns the keys of the active identity.
func (s *Service) List(ctx context.Context) ([]domain.APIKey, error) {
	resp, err := s.api.Get(ctx, "/api_keys", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	var keys []domain.APIKey
	if err := resp.Decode(&keys); err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	return keys, nil
}

// Create issues a key.
func (s *Service) Create(ctx context.Context, opts CreateOpts) (*Created, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("key name is required")
	}
	if opts.ExpiresInDays < 0 {
		return nil, fmt.Errorf("expiry must not be negative")
	}

	resp, err := s.api.Post(ctx, "/api_keys", opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create API key: %w", err)
	}

	var payload struct {
		domain.APIKey
		Secret         string `json:"secret"`
		Key            string `json:"key"`
		PlainTextToken string `json:"plain_text_token"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}

	secret := firstNonEmpty(payload.Secret, payload.Key, payload.PlainTextToken)
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Created{APIKey: payload.APIKey, Secret: secret}, nil
}

// Delete revokes a key.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Delete(ctx, "/api_keys/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("failed to delete API key %s: %w", id, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
