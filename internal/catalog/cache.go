package catalog

import (
	"context"
	"fmt"
)

// CacheKeyPrefix is shared by every cached catalog entry.
const CacheKeyPrefix = "catalog:"

// Cache stores successful remote responses. Misses and errors are treated
// alike by the service.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// SearchKey identifies a search by its full normalized filter tuple. Values
// are query-escaped so distinct tuples never share a key.
func SearchKey(f Filters) string {
	return CacheKeyPrefix + "search:" + f.Values().Encode()
}

func productKey(id string) string { return CacheKeyPrefix + "product:" + id }

func featuredKey(limit int) string { return fmt.Sprintf("%sfeatured:l=%d", CacheKeyPrefix, limit) }
