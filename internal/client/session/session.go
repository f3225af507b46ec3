// Package session manages the bearer credential of the signed-in user.
// The token source is passed explicitly to every consumer, so credential
// lifecycle (login, expiry, logout) stays visible and testable instead of
// being an ambient global lookup.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
)

// ErrNoToken is returned when no credential is stored for the session.
var ErrNoToken = errors.New("session: no token stored")

const (
	keyringService = "portfolioctl"
	keyringUser    = "bearer-token"
)

// TokenSource yields the current bearer credential. Implementations must be
// safe for concurrent use: the API client reads the token at every call site.
type TokenSource interface {
	// Token returns the current bearer token or ErrNoToken.
	Token() (string, error)
}

// Store is a TokenSource that can also be written to. The default
// implementation keeps the token in the OS keyring when one is available and
// falls back to a file next to the config otherwise.
type Store struct {
	mu sync.Mutex

	// file is the fallback path used when the keyring is unavailable.
	file string

	// keyringBroken remembers a failed keyring probe so every call does not
	// retry a missing DBus/keychain service.
	keyringBroken bool
}

// NewStore returns a Store that persists to the OS keyring, falling back to
// the given file path. If file is empty, a default under the user config
// directory is used.
func NewStore(file string) *Store {
	if file == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			file = filepath.Join(dir, "portfolioctl", "token")
		} else {
			file = ".portfolioctl-token"
		}
	}
	return &Store{file: file}
}

// Token returns the stored bearer token, preferring the keyring.
func (s *Store) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.keyringBroken {
		tok, err := keyring.Get(keyringService, keyringUser)
		if err == nil {
			return tok, nil
		}
		if !errors.Is(err, keyring.ErrNotFound) {
			s.keyringBroken = true
		}
		// Not found in the keyring: the token may still live in the
		// fallback file from an earlier session.
	}

	b, err := os.ReadFile(s.file)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

// Save stores the token, preferring the keyring and falling back to the file
// with owner-only permissions.
func (s *Store) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.keyringBroken {
		if err := keyring.Set(keyringService, keyringUser, token); err == nil {
			return nil
		}
		s.keyringBroken = true
	}

	if err := os.MkdirAll(filepath.Dir(s.file), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.file, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Clear removes the stored token from both backends. Missing entries are not
// an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.keyringBroken {
		if err := keyring.Delete(keyringService, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			s.keyringBroken = true
		}
	}
	if err := os.Remove(s.file); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// Static is a fixed-token TokenSource for tests and one-shot invocations.
type Static string

// Token returns the fixed token, or ErrNoToken when empty.
func (s Static) Token() (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}
