package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"llm-pages/internal/index"
)

const keyPrefix = "session:index:"

// RedisStore keeps indexes in Redis as JSON so several replicas can serve the
// same session.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects and pings Redis.
func NewRedisStore(addr, password string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

// Get refreshes the TTL while reading so active sessions stay alive.
func (s *RedisStore) Get(ctx context.Context, id string) (*index.Index, error) {
	if id == "" {
		return nil, ErrNoSession
	}
	data, err := s.client.GetEx(ctx, keyPrefix+id, s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var idx index.Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decode session index: %w", err)
	}
	return &idx, nil
}

func (s *RedisStore) Set(ctx context.Context, id string, idx *index.Index) error {
	if id == "" {
		return ErrNoSession
	}
	data, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+id, data, s.ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context, id string) error {
	if id == "" {
		return ErrNoSession
	}
	return s.client.Del(ctx, keyPrefix+id).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
