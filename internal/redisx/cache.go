package redisx

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// QueryCache keeps encoded catalog responses under their query key.
type QueryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewQueryCache(rdb *redis.Client, ttl time.Duration) *QueryCache {
	return &QueryCache{rdb: rdb, ttl: ttl}
}

func (c *QueryCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, errors.Wrapf(err, "cache get %s", key)
	}
	return b, nil
}

func (c *QueryCache) Set(ctx context.Context, key string, value []byte) error {
	return errors.Wrapf(c.rdb.Set(ctx, key, value, c.ttl).Err(), "cache set %s", key)
}

// DeletePrefix drops every key starting with prefix. It walks the keyspace
// with SCAN so large caches never block the server.
func (c *QueryCache) DeletePrefix(ctx context.Context, prefix string) error {
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 200).Iterator()
	batch := make([]string, 0, 200)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
				return errors.Wrap(err, "cache delete")
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "cache scan")
	}
	if len(batch) > 0 {
		if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
			return errors.Wrap(err, "cache delete")
		}
	}
	return nil
}
