// Package session holds the in-memory calculator sessions the HTTP adapter
// dispatches into. Each session owns one engine.State and serialises its
// events, so every calculator behaves single-threaded no matter how many
// requests arrive concurrently. Sessions live for the process lifetime at
// most; idle ones are evicted by PurgeExpired.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"calcd/internal/engine"
)

// DefaultTTL is how long an idle session survives before the janitor
// evicts it.
const DefaultTTL = 30 * time.Minute

// Session owns one calculator state. All access goes through Dispatch and
// Snapshot; the state itself is never handed out by reference.
type Session struct {
	id string

	mu       sync.Mutex
	state    engine.State
	lastSeen time.Time

	stamper engine.Stamper
	clock   func() time.Time
}

// ID returns the session's identifier.
func (s *Session) ID() string {
	return s.id
}

// Dispatch applies one action to the session's calculator and returns the
// resulting state. Events on the same session run strictly one at a time.
func (s *Session) Dispatch(a engine.Action) engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = engine.Reduce(s.state, a, s.stamper)
	s.lastSeen = s.clock()
	return s.state
}

// Snapshot returns the current state without dispatching anything.
func (s *Session) Snapshot() engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = s.clock()
	return s.state
}

// Store is a uuid-keyed registry of live sessions.
type Store struct {
	ttl     time.Duration
	clock   func() time.Time
	stamper engine.Stamper

	mu       sync.Mutex
	sessions map[string]*Session
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the idle-session TTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithClock substitutes the time source, used by tests to age sessions.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithStamper substitutes the history-entry id source for all sessions.
func WithStamper(st engine.Stamper) Option {
	return func(s *Store) { s.stamper = st }
}

// NewStore returns an empty session store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		ttl:      DefaultTTL,
		clock:    time.Now,
		stamper:  engine.SystemStamper(),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new session with a fresh calculator state.
func (s *Store) Create() *Session {
	sess := &Session{
		id:       uuid.NewString(),
		state:    engine.NewState(),
		lastSeen: s.clock(),
		stamper:  s.stamper,
		clock:    s.clock,
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	return sess
}

// Get looks up a session by id.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	return sess, ok
}

// Delete drops a session, reporting whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// PurgeExpired evicts sessions idle longer than the TTL and returns how
// many were dropped.
func (s *Store) PurgeExpired() int {
	cutoff := s.clock().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()

		if idle {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged
}
