package catalog

import (
	"context"
	"fmt"
	"time"
)

const snapshotTTL = 300 * time.Second

type productCache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration)
}

// CachedSource resolves single products cache-first. The cache is strictly an
// optimization: a nil or failing cache degrades to direct catalog fetches.
type CachedSource struct {
	Client *Client
	Cache  productCache
}

func cacheKey(id int) string {
	return fmt.Sprintf("product:%d", id)
}

func (s *CachedSource) Product(ctx context.Context, id int) *Product {
	var cached Product
	if s.Cache != nil && s.Cache.Get(ctx, cacheKey(id), &cached) && cached.Valid() {
		return &cached
	}

	product := s.Client.FetchOne(ctx, id)
	if product == nil {
		return nil
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, cacheKey(id), product, snapshotTTL)
	}
	return product
}
