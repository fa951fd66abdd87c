package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. The mutex guards only the
// map. Get returns the stored *Session itself, not a copy, so two
// goroutines handling the same user mutate one struct and its slices
// without synchronization. That is a data race under the Go memory model
// (go test -race reports it), not merely last-write-wins. The single-user
// chat client never does this; deployments that take concurrent messages
// for one user should use RedisStore, which hands out independent copies,
// or serialize calls per user.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Get returns the live record shared with every other caller.
func (m *MemoryStore) Get(_ context.Context, userID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	s.UpdatedAt = time.Now()
	m.mu.Lock()
	m.sessions[s.UserID] = s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
	return nil
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
