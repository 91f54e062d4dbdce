package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"avatarbot/internal/domain"
)

const redisKeyPrefix = "session:"

// RedisStore persists sessions in Redis with a TTL. It lets multiple bot
// replicas share conversation state without any change to the flow engine.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(userID int64) string {
	return redisKeyPrefix + strconv.FormatInt(userID, 10)
}

func (r *RedisStore) Get(ctx context.Context, userID int64) (*domain.Session, error) {
	value, err := r.client.Get(ctx, redisKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: redis get: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal([]byte(value), &s); err != nil {
		return nil, fmt.Errorf("session: unmarshal: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Put(ctx context.Context, s *domain.Session) error {
	if s == nil {
		return errors.New("session: nil session")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	return r.client.Set(ctx, redisKey(s.UserID), data, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, userID int64) error {
	return r.client.Del(ctx, redisKey(userID)).Err()
}

var _ Store = (*RedisStore)(nil)
