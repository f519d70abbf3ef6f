package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/productstore/store-api/internal/core/domain"
)

// Session is the client-side view of a login: the bearer token plus the
// identity it was issued for. The zero value is a logged-out session.
type Session struct {
	Token    string      `json:"token"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// Begin starts a session after a successful login.
func (s *Session) Begin(token, username string, role domain.Role) {
	s.Token = token
	s.Username = username
	s.Role = role
}

// End tears the session down.
func (s *Session) End() {
	*s = Session{}
}

// Active reports whether a token is held.
func (s Session) Active() bool {
	return s.Token != ""
}

// Can reports whether the session's role may perform op. It only drives what
// a client offers; the server enforces the same policy.
func (s Session) Can(op domain.Operation) bool {
	if !domain.RequiresToken(op) {
		return true
	}
	return s.Active() && domain.Allowed(op, s.Role)
}

// SessionStore persists a session between runs of a client program.
type SessionStore interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// FileSessionStore keeps the session as a JSON file readable only by its owner.
type FileSessionStore struct {
	Path string
}

func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{Path: path}
}

// DefaultSessionPath returns ~/.storectl/session.json, falling back to the
// working directory when the home directory is unknown.
func DefaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storectl-session.json"
	}
	return filepath.Join(home, ".storectl", "session.json")
}

// Load returns the stored session, or a logged-out one when nothing is stored.
func (f *FileSessionStore) Load() (Session, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

func (f *FileSessionStore) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(f.Path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (f *FileSessionStore) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
