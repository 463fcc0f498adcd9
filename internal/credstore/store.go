package credstore

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Store reads and writes credentials across a primary and a fallback
// backend. Backend failures never reach callers of Get or Clear; they are
// logged and treated as "value absent".
type Store struct {
	primary  Backend
	fallback Backend
	logger   *slog.Logger
}

// New returns a Store that prefers primary and falls back to fallback.
func New(primary, fallback Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{primary: primary, fallback: fallback, logger: logger}
}

// Set writes value to the primary backend, falling back to the cookie jar
// with an expiry of ttl (DefaultTTL when zero) if the primary refuses it.
// The auth token is always mirrored into the cookie jar so the API host
// receives it as a cookie. An error is returned only when no backend
// accepted the value.
func (s *Store) Set(name, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	primaryErr := s.primary.Set(name, value, 0)
	if primaryErr != nil {
		s.logger.Debug("primary credential store rejected write, using cookie fallback",
			"credential", name, "error", primaryErr)
		if err := s.fallback.Set(name, value, ttl); err != nil {
			return fmt.Errorf("credstore: %s not stored: %w", name, errors.Join(primaryErr, err))
		}
		return nil
	}

	if name == AuthToken {
		if err := s.fallback.Set(name, value, ttl); err != nil {
			s.logger.Debug("failed to mirror auth token cookie", "error", err)
		}
	}
	return nil
}

// SetCookie writes value to the fallback backend only.
func (s *Store) SetCookie(name, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := s.fallback.Set(name, value, ttl); err != nil {
		s.logger.Debug("cookie write failed", "credential", name, "error", err)
	}
}

// Get returns the primary value if present, else the fallback value.
func (s *Store) Get(name string) (string, bool) {
	if value, ok := s.read(s.primary, "primary", name); ok {
		return value, true
	}
	return s.read(s.fallback, "fallback", name)
}

// Has reports whether either backend holds a value for name.
func (s *Store) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Clear removes name from both backends.
func (s *Store) Clear(name string) {
	if err := s.primary.Delete(name); err != nil {
		s.logger.Debug("primary credential delete failed", "credential", name, "error", err)
	}
	if err := s.fallback.Delete(name); err != nil {
		s.logger.Debug("cookie delete failed", "credential", name, "error", err)
	}
}

func (s *Store) read(b Backend, label, name string) (string, bool) {
	value, err := b.Get(name)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Debug("credential read failed", "backend", label, "credential", name, "error", err)
		}
		return "", false
	}
	if value == "" {
		return "", false
	}
	return value, true
}
