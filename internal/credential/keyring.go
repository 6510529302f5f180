// Package credential keeps database connection strings in the system
// keyring so they need not be written to the config file.
package credential

import (
	"fmt"

	"github.com/99designs/keyring"

	"github.com/nhle/clientdesk/internal/model"
)

const serviceName = "clientdesk"

func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/clientdesk/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("clientdesk-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Store reads and writes credentials in a keyring.
type Store struct {
	ring keyring.Keyring
}

// Open returns a Store backed by the system keyring.
func Open() (*Store, error) {
	ring, err := openKeyring()
	if err != nil {
		return nil, err
	}
	return &Store{ring: ring}, nil
}

// NewStore wraps an existing keyring, such as keyring.NewArrayKeyring in tests.
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Get retrieves a credential value by key.
func (s *Store) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// Set stores a credential value by key.
func (s *Store) Set(key, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: serviceName + " " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes a credential by key.
func (s *Store) Delete(key string) error {
	if err := s.ring.Remove(key); err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

// ResolveDSN returns the connection string for cfg. When DSNKeyringKey is
// set the keyring entry wins over the plain DSN.
func (s *Store) ResolveDSN(cfg model.DatabaseConfig) (string, error) {
	if cfg.DSNKeyringKey == "" {
		return cfg.DSN, nil
	}
	dsn, err := s.Get(cfg.DSNKeyringKey)
	if err != nil {
		return "", fmt.Errorf("resolving database dsn: %w", err)
	}
	return dsn, nil
}

// ResolveDSN resolves cfg against the system keyring, opening it only when
// a keyring key is configured.
func ResolveDSN(cfg model.DatabaseConfig) (string, error) {
	if cfg.DSNKeyringKey == "" {
		return cfg.DSN, nil
	}
	s, err := Open()
	if err != nil {
		return "", err
	}
	return s.ResolveDSN(cfg)
}
