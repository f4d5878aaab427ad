package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"ultimate-kits/internal/domain"

	"github.com/goccy/go-json"
)

// sessionFile keeps the two entries a browser would hold in local storage:
// the user as a JSON string and the bare token.
type sessionFile struct {
	User  string `json:"user,omitempty"`
	Token string `json:"token,omitempty"`
}

// SessionStore persists the signed-in user and token in a local file.
type SessionStore struct {
	path string

	mu    sync.Mutex
	user  *domain.User
	token string
}

// OpenSessionStore loads path. A missing file is an empty session; an unreadable or
// corrupted one is cleared without reporting an error.
func OpenSessionStore(path string) (*SessionStore, error) {
	s := &SessionStore{path: path}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var file sessionFile
	var user domain.User
	if json.Unmarshal(raw, &file) != nil || (file.User != "" && json.Unmarshal([]byte(file.User), &user) != nil) {
		_ = os.Remove(path)
		return s, nil
	}
	if file.User != "" {
		s.user = &user
	}
	s.token = file.Token
	return s, nil
}

// Save stores a fresh login or registration.
func (s *SessionStore) Save(auth *Auth) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.token = auth.User, auth.Token
	return s.flush()
}

// Logout forgets the user and token. Nothing else kept by the shopper is touched.
func (s *SessionStore) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.token = nil, ""
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *SessionStore) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *SessionStore) IsAdmin() bool {
	u := s.User()
	return u != nil && u.IsAdmin && s.Token() != ""
}

func (s *SessionStore) flush() error {
	file := sessionFile{Token: s.token}
	if s.user != nil {
		b, err := json.Marshal(s.user)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		file.User = string(b)
	}
	raw, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
