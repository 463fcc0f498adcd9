// Package credstore persists named credentials across two backing stores.
//
// The primary backend is the OS keychain. The fallback is a cookie jar
// persisted next to the config file and attached to the API client, so the
// remote side can read the auth cookie as well. Reads consult the primary
// first; the two copies are never reconciled.
package credstore

import (
	"errors"
	"time"
)

// Credential names shared by the keychain and the cookie jar.
const (
	AuthToken          = "auth_token"
	AdminToken         = "admin_token"
	ImpersonationToken = "impersonation_token"
	User               = "user"
	ImpersonatedUser   = "impersonated_user"
	PartnerID          = "partner_id"
)

// Names lists every credential the CLI manages.
var Names = []string{AuthToken, AdminToken, ImpersonationToken, User, ImpersonatedUser, PartnerID}

// DefaultTTL is the cookie lifetime used when a caller does not pass one.
const DefaultTTL = 7 * 24 * time.Hour

// ErrNotFound is returned by a Backend when it holds no value for a name.
var ErrNotFound = errors.New("credential not found")

// Backend is a single key/value mechanism for credentials.
type Backend interface {
	// Get returns the stored value or ErrNotFound.
	Get(name string) (string, error)

	// Set stores value under name. Backends that support expiry drop the
	// value after ttl; a zero ttl means no expiry.
	Set(name, value string, ttl time.Duration) error

	// Delete removes name. Deleting an absent name is not an error.
	Delete(name string) error
}
