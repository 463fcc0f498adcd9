package credstore

import (
	"errors"
	"time"

	"github.com/zalando/go-keyring"
)

// ServiceName is the keychain service under which credentials are stored.
const ServiceName = "panelctl"

// KeyringBackend stores credentials in the OS keychain.
type KeyringBackend struct {
	serviceName string
}

func NewKeyringBackend(serviceName string) *KeyringBackend {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringBackend{serviceName: serviceName}
}

func (k *KeyringBackend) Get(name string) (string, error) {
	value, err := keyring.Get(k.serviceName, name)
	if err == nil {
		return value, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return "", err
}

// Set ignores ttl; keychain entries live until deleted.
func (k *KeyringBackend) Set(name, value string, _ time.Duration) error {
	return keyring.Set(k.serviceName, name, value)
}

func (k *KeyringBackend) Delete(name string) error {
	err := keyring.Delete(k.serviceName, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
