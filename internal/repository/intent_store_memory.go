package repository

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// MemoryIntentStore is the in-process fallback used when Redis is not
// reachable at startup, mirroring RedisIntentStore semantics: one entry
// per guest, last write wins, TTL-bounded.
type MemoryIntentStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*model.ReservationIntent
	now     func() time.Time
}

// NewMemoryIntentStore returns an empty store with the given TTL.
func NewMemoryIntentStore(ttl time.Duration) *MemoryIntentStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &MemoryIntentStore{
		ttl:     ttl,
		entries: make(map[string]*model.ReservationIntent),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Save stores the intent under the guest's key, replacing any earlier entry.
func (s *MemoryIntentStore) Save(_ context.Context, intent *model.ReservationIntent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *intent
	s.entries[intent.GuestRef] = &cp
	return nil
}

// Load returns the guest's pending intent, (nil, nil) when none exists,
// or ErrIntentExpired when the entry outlived the TTL (the stale entry
// is removed).
func (s *MemoryIntentStore) Load(_ context.Context, guestRef string) (*model.ReservationIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	intent, ok := s.entries[guestRef]
	if !ok {
		return nil, nil
	}
	if s.now().Sub(intent.CreatedAt) > s.ttl {
		delete(s.entries, guestRef)
		return nil, ErrIntentExpired
	}
	cp := *intent
	return &cp, nil
}

// Clear removes the guest's pending intent if present.
func (s *MemoryIntentStore) Clear(_ context.Context, guestRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, guestRef)
	return nil
}
