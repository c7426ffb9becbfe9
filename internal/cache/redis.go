package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"BoxScreener/internal/model"
)

// RedisStore keeps the latest report as JSON under a single key, so
// several serve processes can share it.
type RedisStore struct {
	client    *redis.Client
	key       string
	retention time.Duration
}

// NewRedisStore connects to Redis and checks the connection.
// retention 0 keeps the report until overwritten.
func NewRedisStore(ctx context.Context, addr, password string, db int, key string, retention time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisStore{client: client, key: key, retention: retention}, nil
}

func (s *RedisStore) Save(ctx context.Context, r *model.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, s.retention).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Latest(ctx context.Context) (*model.Report, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	var r model.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode cached report: %w", err)
	}
	return &r, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
