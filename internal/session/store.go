package session

import (
	"context"
	"sync"

	"github.com/spec-kit/support-router/internal/domain"
)

// Store holds per-user conversational state. Get returns the default idle
// session when the user has none; Clear resets back to it. Implementations
// must be safe for concurrent access by distinct user ids.
type Store interface {
	Get(ctx context.Context, userID int64) (domain.Session, error)
	Set(ctx context.Context, userID int64, sess domain.Session) error
	Clear(ctx context.Context, userID int64) error
}

// MemoryStore is the default in-process session store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]domain.Session
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]domain.Session)}
}

func (s *MemoryStore) Get(ctx context.Context, userID int64) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return domain.NewSession(), nil
	}
	return sess, nil
}

func (s *MemoryStore) Set(ctx context.Context, userID int64, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
