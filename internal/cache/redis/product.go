package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RaihanulHaque/rimu-world/internal/domain"
	apperrors "github.com/RaihanulHaque/rimu-world/pkg/errors"
)

const keyPrefix = "product:"

// ProductCache caches individual product records in Redis. It is a
// read-through cache: a miss falls back to the repository and the result is
// written back with the configured TTL.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache creates a Redis-backed product cache.
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a cached product by ID.
func (c *ProductCache) Get(ctx context.Context, id string) (*domain.Product, error) {
	key := keyPrefix + id

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("redis get product: %w", err)
	}

	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal cached product: %w", err)
	}

	return &p, nil
}

// Set caches a product with the configured TTL.
func (c *ProductCache) Set(ctx context.Context, p *domain.Product) error {
	key := keyPrefix + p.ID

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set product: %w", err)
	}

	return nil
}

// Delete evicts a product from the cache.
func (c *ProductCache) Delete(ctx context.Context, id string) error {
	key := keyPrefix + id

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del product: %w", err)
	}

	return nil
}
