package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/smart-form-builder-api/internal/models"
)

// Session holds the signed-in user and token, persisted to a file so a
// later process picks it up again. A Session with no path lives in memory.
type Session struct {
	path string

	mu    sync.RWMutex
	state sessionState
}

type sessionState struct {
	User  *models.UserResponse `json:"user,omitempty"`
	Token string               `json:"token,omitempty"`
}

// NewMemorySession returns a session that is never written to disk
func NewMemorySession() *Session {
	return &Session{}
}

// LoadSession reads the session stored at path. A missing file yields an
// empty session that will be created on the next Save.
func LoadSession(path string) (*Session, error) {
	s := &Session{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", path, err)
	}
	return s, nil
}

// Save records a successful login
func (s *Session) Save(user models.UserResponse, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = sessionState{User: &user, Token: token}
	return s.persist()
}

// Clear forgets the user and token
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = sessionState{}
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

func (s *Session) persist() error {
	if s.path == "" {
		return nil
	}
	data, err := json.Marshal(s.state)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Token returns the bearer token, or "" when signed out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// User returns the signed-in user, or nil
func (s *Session) User() *models.UserResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

func (s *Session) IsAdmin() bool {
	u := s.User()
	return u != nil && u.Role == models.RoleAdmin
}
