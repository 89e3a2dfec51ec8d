// Package credentials persists the bearer token and cached profile of the
// signed-in user between runs. The cart core treats it as read-only shared
// state: every outbound call reads the token, only login/logout write it.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"redstore/internal/domain"
)

type Store struct {
	path string

	mu    sync.RWMutex
	token string
	user  *domain.User
}

type fileLayout struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user,omitempty"`
}

// Open loads credentials from path. A missing file yields an empty store,
// not an error.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var f fileLayout
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	s.token = f.Token
	s.user = f.User
	return s, nil
}

// Token returns the stored bearer token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the cached profile saved at login, or nil.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Save persists the token and profile to disk.
func (s *Store) Save(token string, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	raw, err := json.MarshalIndent(fileLayout{Token: token, User: user}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	s.token = token
	s.user = user
	return nil
}

// Clear forgets the credentials and removes the file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
