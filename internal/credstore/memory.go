package credstore

import (
	"errors"
	"sync"
	"time"
)

// ErrUnavailable is returned by the Unavailable backend for every call.
var ErrUnavailable = errors.New("credential backend unavailable")

// MemoryBackend is an in-process backend used by tests and ephemeral sessions.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

func (m *MemoryBackend) Get(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[name]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *MemoryBackend) Set(name, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = value
	return nil
}

func (m *MemoryBackend) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, name)
	return nil
}

// Unavailable is a backend that fails every call, standing in for a
// keychain that is locked, missing, or disabled with PANELCTL_NO_KEYRING.
type Unavailable struct {
	Err error
}

func (u Unavailable) err() error {
	if u.Err != nil {
		return u.Err
	}
	return ErrUnavailable
}

func (u Unavailable) Get(string) (string, error)              { return "", u.err() }
func (u Unavailable) Set(string, string, time.Duration) error { return u.err() }
func (u Unavailable) Delete(string) error                     { return u.err() }
