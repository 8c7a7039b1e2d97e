package auth

import (
	"sync"

	"github.com/google/uuid"
)

// Sessions maps opaque cookie tokens to local user ids. The boundary is an
// interface so the in-memory implementation can be swapped for a shared one
// without touching handlers.
type Sessions interface {
	Create(userID string) string
	Lookup(token string) (string, bool)
	Destroy(token string)
}

type MemorySessions struct {
	mu      sync.RWMutex
	byToken map[string]string
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{byToken: make(map[string]string)}
}

func (s *MemorySessions) Create(userID string) string {
	token := uuid.NewString()

	s.mu.Lock()
	s.byToken[token] = userID
	s.mu.Unlock()

	return token
}

func (s *MemorySessions) Lookup(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byToken[token]
	return userID, ok
}

func (s *MemorySessions) Destroy(token string) {
	s.mu.Lock()
	delete(s.byToken, token)
	s.mu.Unlock()
}
