package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:"

// RedisRevocationStore keeps revoked token ids in redis with the token's remaining TTL
type RedisRevocationStore struct {
	client *redis.Client
}

func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryRevocationStore is the single-process fallback used when redis is not configured
type MemoryRevocationStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{expires: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, exp := range s.expires {
		if !exp.After(now) {
			delete(s.expires, id)
		}
	}
	s.expires[tokenID] = now.Add(ttl)
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.expires[tokenID]
	return ok && exp.After(s.now()), nil
}
