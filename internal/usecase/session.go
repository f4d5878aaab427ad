package usecase

import (
	"sync"
	"time"

	"ultimate-kits/internal/domain"
	"ultimate-kits/pkg/cache"
)

// BrowsingSession is the server-side state of one storefront visitor: the cart and the
// catalog view. Callers must hold Lock while reading or mutating it.
type BrowsingSession struct {
	ID string

	mu   sync.Mutex
	Cart domain.Cart
	View CatalogView
}

func (s *BrowsingSession) Lock()   { s.mu.Lock() }
func (s *BrowsingSession) Unlock() { s.mu.Unlock() }

// SessionStore keeps browsing sessions in memory. Sessions expire after ttl of inactivity
// and are never persisted.
type SessionStore struct {
	cache cache.CacheService
	ttl   time.Duration
	mu    sync.Mutex
}

func NewSessionStore(c cache.CacheService, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: c, ttl: ttl}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Get returns the session for id, creating an empty one when it is unknown or expired.
// Every access extends the session's lifetime.
func (s *SessionStore) Get(id string) *BrowsingSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(id)
	if v, ok := s.cache.Get(key); ok {
		if sess, ok := v.(*BrowsingSession); ok {
			s.cache.Set(key, sess, s.ttl)
			return sess
		}
	}
	sess := &BrowsingSession{ID: id, View: NewCatalogView()}
	s.cache.Set(key, sess, s.ttl)
	return sess
}

// Drop forgets a session.
func (s *SessionStore) Drop(id string) {
	s.cache.Delete(sessionKey(id))
}
