package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// KeyDedup is dedup:{service}:{event_id}.
const KeyDedup = "dedup:%s:%s"

var TTLDedup = 48 * time.Hour

// Deduper remembers processed event ids for TTLDedup.
type Deduper struct {
	rdb     *redis.Client
	service string
}

func NewDeduper(rdb *redis.Client, service string) *Deduper {
	return &Deduper{rdb: rdb, service: service}
}

func (d *Deduper) key(id string) string { return fmt.Sprintf(KeyDedup, d.service, id) }

func (d *Deduper) Seen(ctx context.Context, id string) (bool, error) {
	n, err := d.rdb.Exists(ctx, d.key(id)).Result()
	if err != nil {
		return false, errors.Wrap(err, "dedup exists")
	}
	return n > 0, nil
}

func (d *Deduper) Mark(ctx context.Context, id string) error {
	return errors.Wrap(d.rdb.Set(ctx, d.key(id), "1", TTLDedup).Err(), "dedup mark")
}
