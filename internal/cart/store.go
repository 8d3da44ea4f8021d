package cart

import (
	"sync"
	"time"
)

const defaultCartTTL = 24 * time.Hour

type entry struct {
	cart      *Cart
	expiresAt time.Time
}

// Store keeps carts in memory keyed by session ID. Carts expire after a TTL
// of inactivity; any access refreshes the clock.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
		ttl:     defaultCartTTL,
		now:     time.Now,
	}
}

// WithTTL overrides the idle expiry. Useful in tests.
func (s *Store) WithTTL(ttl time.Duration) *Store {
	s.ttl = ttl
	return s
}

// WithClock overrides the time source. Useful in tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Get returns a snapshot of the session's cart, creating an empty one when
// absent or expired. Callers never see the stored cart itself; concurrent
// requests on the same session must not share a slice.
func (s *Store) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(sessionID).cart.clone()
}

// Update applies fn to the session's cart under the store lock and returns a
// snapshot of the result.
func (s *Store) Update(sessionID string, fn func(*Cart)) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.getLocked(sessionID)
	fn(e.cart)
	return e.cart.clone()
}

// Clear discards the session's cart, typically after a completed checkout.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
}

func (s *Store) getLocked(sessionID string) *entry {
	now := s.now()
	e, ok := s.entries[sessionID]
	if !ok || now.After(e.expiresAt) {
		e = &entry{cart: &Cart{Items: []Item{}}}
		s.entries[sessionID] = e
	}
	e.expiresAt = now.Add(s.ttl)
	return e
}
