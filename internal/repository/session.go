package repo

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	errs "checkers_backend/internal/errors"
)

const sessionKeyPrefix = "session:"

type RedisSessionStorage struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.SugaredLogger
}

func NewSessionRedisStorage(redis *redis.Client, ttl time.Duration, log *zap.SugaredLogger) *RedisSessionStorage {
	return &RedisSessionStorage{
		client: redis,
		ttl:    ttl,
		log:    log,
	}
}

func (r *RedisSessionStorage) GetUserIdBySession(ctx context.Context, sessionID string) (string, error) {
	v, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errs.ErrSessionNotFound
		}
		r.log.Errorf("session lookup failed: %v", err)
		return "", err
	}
	return v, nil
}

func (r *RedisSessionStorage) StoreSession(ctx context.Context, sessionID string, userID string) error {
	return r.client.Set(ctx, sessionKeyPrefix+sessionID, userID, r.ttl).Err()
}

func (r *RedisSessionStorage) DeleteSession(ctx context.Context, sessionID string) error {
	n, err := r.client.Del(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrSessionNotFound
	}
	return nil
}
