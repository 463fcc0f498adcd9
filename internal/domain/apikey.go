package domain

import "time"

// APIKey is a long-lived credential for programmatic access. The secret is
// only ever returned by the create call.
type APIKey struct {
	ID         ID         `json:"id"`
	Name       string     `json:"name"`
	Prefix     string     `json:"prefix,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at,omitzero"`
}
