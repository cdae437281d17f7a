package session

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts time.Now for tests.
type Clock func() time.Time

// InMemoryStore keeps crisis flags in process memory. Suitable for single
// instance deployments and tests; distributed deployments use the redis
// store so all instances see the same crisis state.
type InMemoryStore struct {
	mu      sync.RWMutex
	expires map[string]time.Time
	clock   Clock
}

// InMemoryOption configures an InMemoryStore.
type InMemoryOption func(*InMemoryStore)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) InMemoryOption {
	return func(s *InMemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewInMemoryStore creates an empty in-memory crisis session store.
func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		expires: make(map[string]time.Time),
		clock:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Activate flags the user as in-crisis until the TTL elapses. Re-activating
// extends the window.
func (s *InMemoryStore) Activate(_ context.Context, userID string, ttl time.Duration) error {
	if userID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires[userID] = s.clock().Add(ttl)
	return nil
}

// IsActive reports whether the user has an unexpired crisis flag.
func (s *InMemoryStore) IsActive(_ context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	s.mu.RLock()
	expiry, ok := s.expires[userID]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if s.clock().After(expiry) {
		s.mu.Lock()
		delete(s.expires, userID)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}
