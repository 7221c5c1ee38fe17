package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"pilgrim-insights-go/internal/filters"
)

const (
	DefaultMaxSessions = 1024
	DefaultSessionTTL  = 30 * time.Minute
)

// Session is one viewer's filter state: the flat dashboard and the journey
// keep independent stores.
type Session struct {
	ID        string
	Dashboard *filters.Store
	Journey   *filters.Store
}

// Store returns the session's store for a context name.
func (s *Session) Store(context string) (*filters.Store, bool) {
	switch context {
	case filters.Flat.Name():
		return s.Dashboard, true
	case filters.Journey.Name():
		return s.Journey, true
	}
	return nil, false
}

// Sessions is the registry of live sessions keyed by id. It holds at most
// size sessions; the least recently used one is dropped to make room, and a
// session untouched for ttl expires.
type Sessions struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *Session]
}

func NewSessions(size int, ttl time.Duration) *Sessions {
	if size <= 0 {
		size = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{cache: expirable.NewLRU[string, *Session](size, nil, ttl)}
}

// Lookup returns the live session for id and renews its idle deadline.
func (s *Sessions) Lookup(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(id)
}

func (s *Sessions) lookup(id string) (*Session, bool) {
	sess, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	s.cache.Add(id, sess)
	return sess, true
}

// Get returns the session for id, creating a fresh one under a new uuid when
// id is empty, unknown or expired.
func (s *Sessions) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" {
		if sess, ok := s.lookup(id); ok {
			return sess
		}
	}
	sess := &Session{
		ID:        uuid.New().String(),
		Dashboard: filters.NewStore(filters.Flat),
		Journey:   filters.NewStore(filters.Journey),
	}
	s.cache.Add(sess.ID, sess)
	return sess
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	return s.cache.Len()
}
