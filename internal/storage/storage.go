package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taichizzz/anime-recommender/internal/metrics"
	"github.com/taichizzz/anime-recommender/internal/session"
)

type entry struct {
	controller *session.Controller
	lastSeen   time.Time
}

// SessionStore keeps session controllers in memory, keyed by a random id.
type SessionStore struct {
	sessions map[string]*entry
	factory  func() *session.Controller
	now      func() time.Time
	mu       sync.RWMutex
}

// New returns an empty store. factory builds the controller for each new session.
func New(factory func() *session.Controller) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*entry),
		factory:  factory,
		now:      time.Now,
	}
}

// Create starts a new session and returns its id.
func (s *SessionStore) Create() (string, *session.Controller) {
	id := uuid.NewString()
	controller := s.factory()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &entry{controller: controller, lastSeen: s.now()}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return id, controller
}

// Get returns the session and refreshes its last access time.
func (s *SessionStore) Get(sessionID string) (*session.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, exists := s.sessions[sessionID]
	if !exists {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.controller, true
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) Delete(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return exists
}

// Prune drops sessions idle for longer than maxIdle and returns how many were removed.
func (s *SessionStore) Prune(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	removed := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return removed
}
