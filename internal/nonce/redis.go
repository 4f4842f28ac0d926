package nonce

import (
	"context"
	"fmt"
	"time"

	"bookman/internal/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps issued tokens in redis so nonces survive restarts
// and are shared between instances. Consume is GETDEL, making every
// token single-use.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient creates a redis client from configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func nonceKey(scope, token string) string {
	return fmt.Sprintf("nonce:%s:%s", scope, token)
}

func (s *RedisStore) Issue(ctx context.Context, scope string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("redis client is nil")
	}
	token := uuid.NewString()
	if err := s.client.Set(ctx, nonceKey(scope, token), "1", s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store nonce in redis: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Consume(ctx context.Context, scope, token string) (bool, error) {
	if s.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	if token == "" {
		return false, nil
	}
	_, err := s.client.GetDel(ctx, nonceKey(scope, token)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to consume nonce in redis: %w", err)
	}
	return true, nil
}

// Ping checks the redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}
