package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"golang-stock-sentiment/pkg/logger"
)

const maxBatchPutDepth = 3

// redisStore is the Redis-backed Store implementation.
type redisStore struct {
	client redis.Cmdable
	logger *logger.Logger
}

// NewRedisStore creates a Store backed by Redis.
func NewRedisStore(client redis.Cmdable, log *logger.Logger) Store {
	return &redisStore{client: client, logger: log}
}

func (s *redisStore) Get(ctx context.Context, key string) (*Item, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, NewStoreError(classify(err), "get", key, err)
	}
	return &Item{Key: key, Value: val}, nil
}

func (s *redisStore) Put(ctx context.Context, item Item, ttl time.Duration) error {
	if err := s.client.Set(ctx, item.Key, item.Value, ttl).Err(); err != nil {
		return NewStoreError(classify(err), "put", item.Key, err)
	}
	return nil
}

// PutIfAbsent writes item only when the key does not exist yet. Returns true
// when the write happened, false when a record was already present.
func (s *redisStore) PutIfAbsent(ctx context.Context, item Item, ttl time.Duration) (bool, error) {
	created, err := s.client.SetNX(ctx, item.Key, item.Value, ttl).Result()
	if err != nil {
		return false, NewStoreError(classify(err), "put_if_absent", item.Key, err)
	}
	return created, nil
}

func (s *redisStore) BatchGet(ctx context.Context, keys []string) ([]Item, error) {
	items := make([]Item, 0, len(keys))
	for _, chunk := range ChunkKeys(keys, MaxBatchReadSize) {
		vals, err := s.client.MGet(ctx, chunk...).Result()
		if err != nil {
			return nil, NewStoreError(classify(err), "batch_get", "", err)
		}
		for i, val := range vals {
			if val == nil {
				continue
			}
			str, ok := val.(string)
			if !ok {
				continue
			}
			items = append(items, Item{Key: chunk[i], Value: []byte(str)})
		}
	}
	return items, nil
}

// BatchPut writes items in chunks of MaxBatchWriteSize via pipelined SETs.
// Items whose individual write fails transiently are re-submitted as a smaller
// batch, up to maxBatchPutDepth levels deep. BatchPut overwrites existing
// keys; callers needing dedup must pre-filter via Exists or BatchGet.
func (s *redisStore) BatchPut(ctx context.Context, items []Item, ttl time.Duration) error {
	for _, chunk := range ChunkItems(items, MaxBatchWriteSize) {
		if err := s.putChunk(ctx, chunk, ttl, 0); err != nil {
			return err
		}
	}
	return nil
}

func (s *redisStore) putChunk(ctx context.Context, chunk []Item, ttl time.Duration, depth int) error {
	pipe := s.client.Pipeline()
	cmds := make([]*redis.StatusCmd, len(chunk))
	for i, item := range chunk {
		cmds[i] = pipe.Set(ctx, item.Key, item.Value, ttl)
	}
	_, execErr := pipe.Exec(ctx)

	var unprocessed []Item
	var lastErr error
	for i, cmd := range cmds {
		if err := cmd.Err(); err != nil {
			unprocessed = append(unprocessed, chunk[i])
			lastErr = err
		}
	}
	if len(unprocessed) == 0 {
		return nil
	}
	if execErr != nil {
		lastErr = execErr
	}

	storeErr := NewStoreError(classify(lastErr), "batch_put", "", lastErr)
	if !IsTransient(storeErr) || depth >= maxBatchPutDepth {
		return storeErr
	}

	s.logger.Warn("Retrying unprocessed batch put items",
		logger.IntField("count", len(unprocessed)),
		logger.IntField("depth", depth+1),
	)
	return s.putChunk(ctx, unprocessed, ttl, depth+1)
}

func (s *redisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, NewStoreError(classify(err), "exists", key, err)
	}
	return n > 0, nil
}
