package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/storefront/internal/common"
)

const (
	keyPrefix = "session:"
	// tokenBytes random bytes, hex-encoded to a 64-character token.
	tokenBytes = 32
	// maxTTL is the hard cap on session lifetime.
	maxTTL = 1 * time.Hour
)

// RedisStore implements Manager on a Redis client. The value under
// "session:<token>" is the user id; expiry is Redis key TTL, absolute from
// creation (no sliding refresh on access).
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a store with the given TTL, clamped to maxTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 || ttl > maxTTL {
		ttl = maxTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (s *RedisStore) TTL() time.Duration {
	return s.ttl
}

func (s *RedisStore) Create(ctx context.Context, userID string) (string, error) {
	token, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return "", fmt.Errorf("token generation error: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session store error: %w", err)
	}

	return token, nil
}

func (s *RedisStore) Validate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrorUnauthenticated
	}

	userID, err := s.client.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrorUnauthenticated
		}
		return "", fmt.Errorf("session store error: %w", err)
	}

	return userID, nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	removed, err := s.client.Del(ctx, keyPrefix+token).Result()
	if err != nil {
		return fmt.Errorf("session store error: %w", err)
	}
	if removed == 0 {
		return common.ErrorNotFound
	}
	return nil
}
