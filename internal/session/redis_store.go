package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/support-router/internal/domain"
)

const redisKeyPrefix = "session:"

// RedisStore keeps sessions in Redis with a TTL. Sessions only buffer
// in-progress conversations, so entries are best-effort: a missing or
// expired entry degrades to the default idle session.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (domain.Session, error) {
	raw, err := s.client.Get(ctx, redisKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.NewSession(), nil
		}
		return domain.NewSession(), err
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// Corrupt entry: drop it rather than wedge the conversation.
		_ = s.client.Del(ctx, redisKey(userID)).Err()
		return domain.NewSession(), nil
	}
	return sess, nil
}

func (s *RedisStore) Set(ctx context.Context, userID int64, sess domain.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKey(userID), raw, s.ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, redisKey(userID)).Err()
}

func redisKey(userID int64) string {
	return redisKeyPrefix + strconv.FormatInt(userID, 10)
}
