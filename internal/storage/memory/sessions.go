package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/storage"
)

// SessionStore is an in-memory session-token-to-user mapping.
// Entries are only removed on DeleteSession; expiry is the caller's check.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

// NewSessionStore creates a new in-memory session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*model.Session),
	}
}

var _ storage.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) SaveSession(_ context.Context, session *model.Session, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := *session
	s.sessions[session.Token] = &sess
	return nil
}

func (s *SessionStore) GetSession(_ context.Context, token string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, storage.ErrSessionNotFound
	}
	sess := *session
	return &sess, nil
}

func (s *SessionStore) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
