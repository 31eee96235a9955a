package session

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// TokenStore is the persisted client state: access and refresh tokens, set
// on login or refresh success and cleared on logout. The adapter reads the
// token through this interface on every call, so rotation takes effect on
// the next request.
type TokenStore interface {
	Token() string
	RefreshToken() string
	Save(token, refreshToken string) error
	Clear() error
}

type MemoryStore struct {
	mu      sync.RWMutex
	token   string
	refresh string
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *MemoryStore) Save(token, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if refreshToken != "" {
		s.refresh = refreshToken
	}
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.refresh = ""
	return nil
}

// FileStore persists tokens as a JSON file, mode 0600.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type tokenFile struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Token() string {
	return s.read().Token
}

func (s *FileStore) RefreshToken() string {
	return s.read().RefreshToken
}

func (s *FileStore) Save(token, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.readLocked()
	current.Token = token
	if refreshToken != "" {
		current.RefreshToken = refreshToken
	}
	data, err := json.Marshal(current)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileStore) read() tokenFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *FileStore) readLocked() tokenFile {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return tokenFile{}
	}
	var parsed tokenFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return tokenFile{}
	}
	return parsed
}
