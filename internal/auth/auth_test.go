package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStore_TokenRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	if s.LoggedIn() {
		t.Error("fresh store should not be logged in")
	}
	if s.Token() != "" {
		t.Error("fresh store should have empty token")
	}

	if err := s.SaveToken("tok-123"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := s.Token(); got != "tok-123" {
		t.Errorf("token = %q", got)
	}
	if !s.LoggedIn() {
		t.Error("expected logged in after save")
	}
}

func TestStore_UserRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	if s.User() != nil {
		t.Error("fresh store should have no user")
	}

	u := &User{ID: "u1", Username: "dev", Email: "dev@example.com"}
	if err := s.SaveUser(u); err != nil {
		t.Fatalf("save user: %v", err)
	}

	got := s.User()
	if got == nil || got.Username != "dev" || got.Email != "dev@example.com" {
		t.Errorf("user = %+v", got)
	}
}

func TestStore_ClearRemovesBothKeys(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	if err := s.SaveToken("tok"); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveUser(&User{ID: "u1"}); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if s.Token() != "" || s.User() != nil {
		t.Error("credentials not cleared")
	}
	if _, err := os.Stat(filepath.Join(dir, TokenFile)); !os.IsNotExist(err) {
		t.Error("token file still present")
	}
	if _, err := os.Stat(filepath.Join(dir, UserFile)); !os.IsNotExist(err) {
		t.Error("user file still present")
	}

	// Clearing an already-empty store is not an error.
	if err := s.Clear(); err != nil {
		t.Errorf("second clear: %v", err)
	}
}
