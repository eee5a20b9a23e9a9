package replies

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
)

// Sessions maps session ids to their reply managers. The registry lock
// only guards the map; each Session serializes mutations to its manager
// so the dense sortOrder invariant holds under concurrent HTTP calls.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

type Session struct {
	mu  sync.Mutex
	mgr *Manager
}

func NewSessions() *Sessions {
	return &Sessions{sessions: map[string]*Session{}}
}

// Open creates a fresh session and returns its id.
func (s *Sessions) Open() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	id := hex.EncodeToString(b)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &Session{mgr: NewManager()}
	return id
}

func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Sessions) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// With runs fn with exclusive access to the session's manager.
func (s *Session) With(fn func(*Manager)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.mgr)
}
