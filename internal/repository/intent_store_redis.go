package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// RedisIntentStore keeps at most one pending reservation intent per
// guest in Redis, expiring entries after the configured TTL.  A saved
// intent is draft state for resuming an interrupted payment step; it is
// never an inventory hold.
type RedisIntentStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisIntentStore returns a store using the given client and TTL.
func NewRedisIntentStore(rdb *redis.Client, ttl time.Duration) *RedisIntentStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisIntentStore{rdb: rdb, ttl: ttl}
}

func intentKey(guestRef string) string { return "intent:" + guestRef }

// Save stores the intent under the guest's key, replacing any earlier
// entry (last write wins) and resetting the TTL.
func (s *RedisIntentStore) Save(ctx context.Context, intent *model.ReservationIntent) error {
	payload, err := json.Marshal(intent)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, intentKey(intent.GuestRef), payload, s.ttl).Err()
}

// Load returns the guest's pending intent.  A missing key yields
// (nil, nil).  An entry whose creation timestamp predates the TTL
// window (possible after a TTL reconfiguration) is removed and reported
// as ErrIntentExpired.
func (s *RedisIntentStore) Load(ctx context.Context, guestRef string) (*model.ReservationIntent, error) {
	payload, err := s.rdb.Get(ctx, intentKey(guestRef)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var intent model.ReservationIntent
	if err := json.Unmarshal(payload, &intent); err != nil {
		// Unreadable entries are dropped rather than wedging the guest.
		_ = s.rdb.Del(ctx, intentKey(guestRef)).Err()
		return nil, nil
	}
	if time.Now().UTC().Sub(intent.CreatedAt) > s.ttl {
		_ = s.rdb.Del(ctx, intentKey(guestRef)).Err()
		return nil, ErrIntentExpired
	}
	return &intent, nil
}

// Clear removes the guest's pending intent.  Clearing an absent entry
// is not an error.
func (s *RedisIntentStore) Clear(ctx context.Context, guestRef string) error {
	return s.rdb.Del(ctx, intentKey(guestRef)).Err()
}
