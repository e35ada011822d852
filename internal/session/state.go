package session

import (
	"sync"

	"github.com/noah-isme/sma-portal-client/internal/models"
)

// State holds the signed-in identity. Every login and logout starts a new generation so
// work begun under an older one can tell it has gone stale.
type State struct {
	mu         sync.RWMutex
	current    *models.Session
	generation uint64
}

// New returns a logged-out state.
func New() *State {
	return &State{}
}

// Begin records a new session and returns its generation.
func (s *State) Begin(username string, role models.Role) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &models.Session{Username: username, Role: role}
	s.generation++
	return s.generation
}

// Clear drops the session. Safe to call when already logged out.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.generation++
}

// Current returns a copy of the live session.
func (s *State) Current() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Session{}, false
	}
	return *s.current, true
}

// Generation returns the current generation.
func (s *State) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Live reports whether gen is still the current generation of a signed-in session.
func (s *State) Live(gen uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.generation == gen
}
