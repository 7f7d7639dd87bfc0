// ABOUTME: Persistent session store for the contact manager client
// ABOUTME: Keeps the auth token and username as an atomic pair in the XDG config directory

package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionFileName = "session.json"

// Store holds the current authentication token and derived identity.
// All reads and writes go through the store; no other component touches
// the session file directly.
type Store struct {
	mu        sync.Mutex
	configDir string
	loaded    bool
	token     string
	username  string
}

type sessionData struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// New creates a session store rooted at the given config directory
func New(configDir string) *Store {
	return &Store{configDir: configDir}
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "contactctl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "contactctl")
}

func (s *Store) sessionFile() string {
	return filepath.Join(s.configDir, sessionFileName)
}

// load reads the session file into memory. Callers must hold s.mu.
// A file missing either field is treated as no session at all, so the
// token/username pair is never observed half-set.
func (s *Store) load() {
	if s.loaded {
		return
	}
	s.loaded = true

	data, err := os.ReadFile(s.sessionFile())
	if err != nil {
		return
	}

	var sess sessionData
	if err := json.Unmarshal(data, &sess); err != nil {
		return
	}
	if sess.Token == "" || sess.Username == "" {
		return
	}

	s.token = sess.Token
	s.username = sess.Username
}

// Set persists the token and username as a pair. The file is written to a
// temp path and renamed into place so a crash never leaves one field
// without the other.
func (s *Store) Set(token, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sessionData{Token: token, Username: username}, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.sessionFile() + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.sessionFile()); err != nil {
		return err
	}

	s.loaded = true
	s.token = token
	s.username = username
	return nil
}

// Clear removes the session from disk and memory
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	s.token = ""
	s.username = ""

	err := os.Remove(s.sessionFile())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Token returns the current auth token, or empty when logged out
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return s.token
}

// Username returns the identity the session was created for
func (s *Store) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return s.username
}

// IsAuthenticated reports whether a session exists
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Expiry returns the token's exp claim when present. The claim is read
// without signature verification: it is display-only and never gates
// access, the server remains the authority on token validity.
func (s *Store) Expiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
