// Package session holds per-browser authentication state. Each browser visit
// gets a random ID carried in a cookie; the server keeps the matching state
// in an in-process registry. State is never persisted and does not survive a
// restart.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the identity slot of one browser session. The zero value is the
// anonymous state, which is also the state after logout.
type State struct {
	Authenticated bool
	UserID        int64
}

type entry struct {
	state   State
	expires time.Time
}

// Store is an in-memory session registry. Expired entries are dropped lazily
// when touched.
type Store struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]entry
}

// NewStore builds a Store whose sessions live for ttl after their last write.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]entry),
	}
}

// Create registers a fresh anonymous session and returns its ID.
func (s *Store) Create() string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = entry{expires: time.Now().Add(s.ttl)}
	return id
}

// Get returns the state for id. Unknown or expired IDs yield the anonymous
// state and ok=false.
func (s *Store) Get(id string) (State, bool) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return State{}, false
	}
	if time.Now().After(e.expires) {
		s.Destroy(id)
		return State{}, false
	}
	return e.state, true
}

// Set stores state under id and refreshes its lifetime.
func (s *Store) Set(id string, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = entry{state: state, expires: time.Now().Add(s.ttl)}
}

// Destroy drops the session entirely.
func (s *Store) Destroy(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
