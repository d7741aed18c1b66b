// Package auth stores the kai session credentials on disk.
//
// Token and user identity live under two separate files, mirroring the two
// storage keys the web client uses. A 401/403 from any API call clears
// both; that global side effect is wired into the HTTP client as an
// on-unauthorized callback rather than reached through package state.
package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kaihub/kai/internal/util"
)

const (
	// TokenFile holds the bearer token.
	TokenFile = "token"
	// UserFile holds the minimal user identity.
	UserFile = "user.yaml"
)

// User is the minimal identity stored alongside the token.
type User struct {
	ID       string `yaml:"id" json:"id"`
	Username string `yaml:"username" json:"username"`
	Email    string `yaml:"email,omitempty" json:"email,omitempty"`
}

// Store persists credentials under a directory.
type Store struct {
	dir string
}

// NewStore creates a credential store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Token returns the stored bearer token, or "" when not logged in.
func (s *Store) Token() string {
	data, err := os.ReadFile(filepath.Join(s.dir, TokenFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SaveToken writes the bearer token.
func (s *Store) SaveToken(token string) error {
	if err := util.AtomicWriteFile(filepath.Join(s.dir, TokenFile), []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// User returns the stored identity, or nil when absent.
func (s *Store) User() *User {
	data, err := os.ReadFile(filepath.Join(s.dir, UserFile))
	if err != nil {
		return nil
	}
	var u User
	if err := yaml.Unmarshal(data, &u); err != nil {
		return nil
	}
	return &u
}

// SaveUser writes the user identity.
func (s *Store) SaveUser(u *User) error {
	data, err := yaml.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := util.AtomicWriteFile(filepath.Join(s.dir, UserFile), data, 0600); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Clear removes both credential files. Used on logout and whenever the
// server rejects the session.
func (s *Store) Clear() error {
	var firstErr error
	for _, name := range []string{TokenFile, UserFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = fmt.Errorf("clear %s: %w", name, err)
			}
		}
	}
	return firstErr
}

// LoggedIn reports whether a token is present.
func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}
