package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"taskboard/internal/core/model/response"
)

// Session is what a successful login leaves behind.
type Session struct {
	Token string                `json:"token"`
	User  response.UserResponse `json:"user"`
}

// TokenStore persists the session between calls. Load returns
// ErrNotLoggedIn when nothing is stored.
type TokenStore interface {
	Load() (Session, error)
	Save(session Session) error
	Clear() error
}

type MemoryTokenStore struct {
	mu      sync.RWMutex
	session Session
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load() (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session.Token == "" {
		return Session{}, ErrNotLoggedIn
	}

	return s.session, nil
}

func (s *MemoryTokenStore) Save(session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = session
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	return s.Save(Session{})
}

// FileTokenStore keeps the session as JSON in a single file.
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// DefaultTokenPath is <user config dir>/taskctl/session.json.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()

	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "taskctl", "session.json"), nil
}

func (s *FileTokenStore) Load() (Session, error) {
	raw, err := os.ReadFile(s.path)

	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, ErrNotLoggedIn
	}

	if err != nil {
		return Session{}, err
	}

	var session Session

	if err := json.Unmarshal(raw, &session); err != nil {
		return Session{}, err
	}

	if session.Token == "" {
		return Session{}, ErrNotLoggedIn
	}

	return session, nil
}

func (s *FileTokenStore) Save(session Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	raw, err := json.Marshal(session)

	if err != nil {
		return err
	}

	return os.WriteFile(s.path, raw, 0o600)
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)

	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}
