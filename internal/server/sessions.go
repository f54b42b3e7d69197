package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mpopescu/atsmatch/internal/analysis"
	"github.com/mpopescu/atsmatch/internal/cv"
)

// DefaultSessionTTL is how long an idle session survives before pruning.
const DefaultSessionTTL = 2 * time.Hour

// Session holds one client's isolated working state: a CV snapshot and the
// per-job analysis cache. Nothing is shared between sessions.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
	snapshot *cv.Snapshot
	cache    *analysis.Cache
}

// Snapshot returns a copy-safe reference to the session CV.
func (s *Session) Snapshot() *cv.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// SetSnapshot replaces the session CV.
func (s *Session) SetSnapshot(snap *cv.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
}

// Cache returns the session's analysis cache.
func (s *Session) Cache() *analysis.Cache {
	return s.cache
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Registry tracks sessions by UUID and prunes idle ones.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration

	pruneTicker *time.Ticker
	pruneStop   chan struct{}
}

// NewRegistry creates a session registry with the given idle TTL. A zero
// ttl disables pruning.
func NewRegistry(ttl time.Duration) *Registry {
	r := &Registry{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
	}
	if ttl > 0 {
		r.pruneTicker = time.NewTicker(ttl / 4)
		r.pruneStop = make(chan struct{})
		go r.pruneLoop()
	}
	return r
}

// Create registers a new empty session.
func (r *Registry) Create() *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		lastSeen:  now,
		cache:     analysis.NewCache(),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get looks up a session by id and marks it as active.
func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		s.touch()
	}
	return s, ok
}

// Delete removes a session.
func (r *Registry) Delete(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) pruneLoop() {
	for {
		select {
		case <-r.pruneTicker.C:
			cutoff := time.Now().Add(-r.ttl)
			r.mu.Lock()
			for id, s := range r.sessions {
				if s.idleSince().Before(cutoff) {
					delete(r.sessions, id)
				}
			}
			r.mu.Unlock()
		case <-r.pruneStop:
			return
		}
	}
}

// Stop terminates the prune goroutine.
func (r *Registry) Stop() {
	if r.pruneTicker != nil {
		r.pruneTicker.Stop()
		close(r.pruneStop)
	}
}
