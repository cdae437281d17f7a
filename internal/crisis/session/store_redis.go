package session

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var isActiveDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "haven_crisis_session_check_duration_ms",
	Help:    "Latency of crisis session checks in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

const crisisSessionKeyPrefix = "crisis:session:"

// RedisStore is a Redis-backed crisis session store. This is the
// production-recommended implementation for distributed deployments where
// every instance must see the same crisis state.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed crisis session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Activate flags the user as in-crisis with TTL. Uses SET with expiry for
// an atomic set-with-expiry; the key existence is what matters.
func (s *RedisStore) Activate(ctx context.Context, userID string, ttl time.Duration) error {
	if userID == "" {
		return nil
	}
	key := crisisSessionKeyPrefix + userID
	return s.client.Set(ctx, key, "1", ttl).Err()
}

// IsActive reports whether the user has an unexpired crisis flag.
// Returns false when the key doesn't exist (not flagged or expired).
func (s *RedisStore) IsActive(ctx context.Context, userID string) (bool, error) {
	start := time.Now()
	defer func() {
		isActiveDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if userID == "" {
		return false, nil
	}
	key := crisisSessionKeyPrefix + userID
	_, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
