package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "payment_element:handoff:"

// RedisStore keeps records in Redis with a key TTL.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, record Record, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("handoff: redis not configured")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("handoff: encode record: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(record.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("handoff: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	if s == nil || s.client == nil {
		return Record{}, fmt.Errorf("handoff: redis not configured")
	}
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("handoff: redis get: %w", err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("handoff: decode record: %w", err)
	}
	return record, nil
}

func redisKey(id uuid.UUID) string {
	return redisKeyPrefix + id.String()
}
