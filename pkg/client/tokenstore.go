package client

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// TokenStore persists exactly one opaque bearer token in a file. The token
// survives restarts until explicit logout or a backend rejection clears it.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store rooted at path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load returns the stored token, or "" when none is stored.
func (s *TokenStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "read token")
	}
	return strings.TrimSpace(string(raw)), nil
}

// Save writes the token, creating the parent directory if needed.
func (s *TokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "create token dir")
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return errors.Wrap(err, "write token")
	}
	return nil
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (s *TokenStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove token")
	}
	return nil
}
