package store

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/platewise/souschef/internal/service"
	"github.com/platewise/souschef/internal/types"
)

// MemorySessionStore keeps cooking sessions in process memory. The default
// store for single-instance deployments; sessions do not survive a
// restart.
//
// Each session has its own mutex so concurrent Updates on different
// sessions never contend, while Updates on the same session serialize into
// an atomic read-modify-write.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu   sync.Mutex
	sess *types.CookingSession
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*sessionEntry),
	}
}

// newSessionID generates a short session identifier.
func newSessionID() string {
	u := uuid.New()
	return "session_" + hex.EncodeToString(u[:])[:8]
}

// Create allocates a new session for prefs and returns a copy of it.
func (s *MemorySessionStore) Create(_ context.Context, prefs types.Preferences) (*types.CookingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := newSessionID()
	for _, exists := s.sessions[id]; exists; _, exists = s.sessions[id] {
		id = newSessionID()
	}

	sess := &types.CookingSession{
		ID:          id,
		Preferences: prefs,
		CreatedAt:   time.Now().UTC(),
	}
	s.sessions[id] = &sessionEntry{sess: sess}

	return sess.Clone(), nil
}

// Get returns a copy of the session; callers can't mutate store state
// through it.
func (s *MemorySessionStore) Get(_ context.Context, id string) (*types.CookingSession, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.sess.Clone(), nil
}

// Update applies mutate to the session under its lock. If mutate returns
// an error the session is left untouched and the error is returned
// verbatim.
func (s *MemorySessionStore) Update(_ context.Context, id string, mutate func(*types.CookingSession) error) (*types.CookingSession, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	next := entry.sess.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	entry.sess = next

	return next.Clone(), nil
}

// Delete removes the session.
func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return service.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len reports the number of live sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemorySessionStore) entry(id string) (*sessionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, service.ErrSessionNotFound
	}
	return entry, nil
}
