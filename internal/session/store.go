// Package session persists the bearer token and role tag between runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/naveenspark/bidboard/pkg/domain"
)

const fileName = "session.json"

// Env overrides, checked before the session file.
const (
	EnvToken    = "BIDBOARD_TOKEN"
	EnvUserType = "BIDBOARD_USER_TYPE"
)

// Store holds the current session and mirrors it to dir/session.json.
// Reads may come from request goroutines; writes happen on the UI loop.
type Store struct {
	path string

	mu  sync.RWMutex
	cur domain.Session
}

// Open loads the session using precedence: env vars > file > empty.
// A missing or unreadable file yields an empty session, not an error.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("session.Open: empty directory")
	}
	s := &Store{path: filepath.Join(dir, fileName)}
	if tok := strings.TrimSpace(os.Getenv(EnvToken)); tok != "" {
		s.cur = domain.Session{Token: tok}
		if ut, err := domain.ParseUserType(os.Getenv(EnvUserType)); err == nil {
			s.cur.UserType = ut
		}
		return s, nil
	}
	s.cur = readFile(s.path)
	return s, nil
}

func readFile(path string) domain.Session {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Session{}
	}
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return domain.Session{}
	}
	if !sess.UserType.Valid() {
		sess.UserType = ""
	}
	return sess
}

// Path is the backing file.
func (s *Store) Path() string {
	return s.path
}

// Get returns the current session.
func (s *Store) Get() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Token implements client.TokenSource.
func (s *Store) Token() string {
	return s.Get().Token
}

// Set stores the pair and persists it. The in-memory value is updated even
// when the write fails so the running program stays logged in.
func (s *Store) Set(token string, userType domain.UserType) error {
	sess := domain.Session{Token: token, UserType: userType}
	s.mu.Lock()
	s.cur = sess
	s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("session.Set: create dir: %w", err)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session.Set: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("session.Set: write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("session.Set: rename: %w", err)
	}
	return nil
}

// Clear forgets the session and removes the file.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.cur = domain.Session{}
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session.Clear: %w", err)
	}
	return nil
}
