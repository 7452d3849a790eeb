package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/domain"
)

// RedisStorage keeps each basket as a JSON blob under a fixed per-user
// key. Baskets are durable state rather than a cache, so no TTL is set.
type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

func (r *RedisStorage) Load(ctx context.Context, userID string) (domain.Basket, error) {
	data, err := r.client.Get(ctx, basketKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Basket{}, ErrNotFound
	}
	if err != nil {
		return domain.Basket{}, fmt.Errorf("redis get failed: %w", err)
	}

	var basket domain.Basket
	if err := json.Unmarshal(data, &basket); err != nil {
		return domain.Basket{}, fmt.Errorf("unmarshal basket failed: %w", err)
	}
	return basket, nil
}

func (r *RedisStorage) Save(ctx context.Context, userID string, basket domain.Basket) error {
	data, err := json.Marshal(basket)
	if err != nil {
		return fmt.Errorf("marshal basket failed: %w", err)
	}
	if err := r.client.Set(ctx, basketKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, basketKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func basketKey(userID string) string {
	return fmt.Sprintf("basket:%s", userID)
}
