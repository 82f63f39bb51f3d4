package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/phishguard/internal/domain/scans"
	"github.com/bryanwahyu/phishguard/internal/domain/stats"
)

// Store tracks browser sessions in memory.
// Sessions (and their statistics) are gone when the server restarts.
type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	seed     func() stats.Statistics
	now      func() time.Time
}

// Session holds the display state of one browser
type Session struct {
	id        string
	mu        sync.Mutex
	stats     stats.Statistics
	last      *scans.ScanResult
	createdAt time.Time
	lastSeen  time.Time
}

// NewStore creates a store whose sessions start from the placeholder snapshot
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		seed:     stats.Placeholder,
		now:      time.Now,
	}
}

// Create starts a new session with fresh statistics
func (s *Store) Create() *Session {
	now := s.now()
	sess := &Session{
		id:        uuid.New().String(),
		stats:     s.seed(),
		createdAt: now,
		lastSeen:  now,
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session and marks it as seen
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	sess.mu.Lock()
	sess.lastSeen = s.now()
	sess.mu.Unlock()
	return sess, true
}

// GetOrCreate resolves a cookie value; the bool is true when a new session was made
func (s *Store) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if sess, ok := s.Get(id); ok {
			return sess, false
		}
	}
	return s.Create(), true
}

// Invalidate removes a session
func (s *Store) Invalidate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
}

// Active returns count of active sessions
func (s *Store) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

// CleanupExpired removes sessions idle longer than maxAge
func (s *Store) CleanupExpired(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen)
		sess.mu.Unlock()
		if idle > maxAge {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Session) ID() string { return s.id }

func (s *Session) Stats() stats.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// RecordScan counts one completed single scan and returns the new tally
func (s *Session) RecordScan(isPhishing bool) stats.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Record(isPhishing)
	return s.stats
}

func (s *Session) SetLastResult(r *scans.ScanResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = r
}

func (s *Session) LastResult() *scans.ScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// ClearLastResult is used by "scan again"
func (s *Session) ClearLastResult() {
	s.SetLastResult(nil)
}
