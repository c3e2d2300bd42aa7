// Package cookies persists the session cookie between CLI invocations, the
// way a browser's cookie jar would across page loads. The cookie value goes
// into the OS keychain, never onto disk.
package cookies

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/zalando/go-keyring"
)

const (
	service = "mephub-cli"

	// SessionCookieName matches the cookie the API sets on login
	SessionCookieName = "mephub_session"
)

// getKeyringKey returns a unique key for storing the session cookie per server
func getKeyringKey(serverURL string) string {
	return fmt.Sprintf("session-%s", serverURL)
}

// Save persists the session cookie value in the OS keychain
func Save(serverURL, value string) error {
	if err := keyring.Set(service, getKeyringKey(serverURL), value); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load retrieves the session cookie value from the OS keychain
func Load(serverURL string) (string, error) {
	value, err := keyring.Get(service, getKeyringKey(serverURL))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("not logged in. Please run 'mephub login' first")
		}
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	return value, nil
}

// Delete removes the session cookie from the OS keychain
func Delete(serverURL string) error {
	if err := keyring.Delete(service, getKeyringKey(serverURL)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Store abstracts the keychain so tests can substitute an in-memory map
type Store interface {
	Save(serverURL, value string) error
	Load(serverURL string) (string, error)
	Delete(serverURL string) error
}

type keyringStore struct{}

// Default is the OS keychain backed store
var Default Store = &keyringStore{}

func (k *keyringStore) Save(serverURL, value string) error    { return Save(serverURL, value) }
func (k *keyringStore) Load(serverURL string) (string, error) { return Load(serverURL) }
func (k *keyringStore) Delete(serverURL string) error         { return Delete(serverURL) }

// NewJar builds a cookie jar seeded with the stored session cookie for
// serverURL. An empty value yields a fresh jar.
func NewJar(serverURL, value string) (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	if value != "" {
		u, err := url.Parse(serverURL)
		if err != nil {
			return nil, fmt.Errorf("invalid server URL: %w", err)
		}
		jar.SetCookies(u, []*http.Cookie{{
			Name:  SessionCookieName,
			Value: value,
			Path:  "/",
		}})
	}

	return jar, nil
}

// SessionValue extracts the session cookie value from a jar after login,
// or empty string when the server set none
func SessionValue(jar http.CookieJar, serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	for _, c := range jar.Cookies(u) {
		if c.Name == SessionCookieName {
			return c.Value, nil
		}
	}
	return "", nil
}
