package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Roja8626/tech-mock/internal/common"

	"github.com/redis/go-redis/v9"
)

type redisCollectionStore struct {
	rdb *redis.Client
}

func NewRedisCollectionStore(rdb *redis.Client) CollectionStore {
	return &redisCollectionStore{rdb: rdb}
}

func (s *redisCollectionStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("redisCollectionStore.Get: %w", err)
	}
	return v, nil
}

func (s *redisCollectionStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redisCollectionStore.Set: %w", err)
	}
	return nil
}
