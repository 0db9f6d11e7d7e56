package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// defaultOperationTimeout is the timeout for individual Redis operations
	defaultOperationTimeout = 5 * time.Second

	pageTTL = 1 * time.Hour
)

var (
	ErrCacheDisabled = errors.New("cache disabled")
	ErrCacheMiss     = errors.New("key not found")
)

type Cache struct {
	client  *redis.Client
	enabled bool
}

func NewCache(addr string, enable bool) (*Cache, error) {
	if !enable {
		return &Cache{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{
		client:  client,
		enabled: true,
	}, nil
}

// Enabled reports whether operations reach redis.
func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// operationContext creates a context with timeout for Redis operations
func (c *Cache) operationContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, defaultOperationTimeout)
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, expiration).Err()
}

func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if !c.Enabled() {
		return ErrCacheDisabled
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrCacheMiss
	} else if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	return c.client.Del(ctx, key).Err()
}

func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Cache) FlushAll(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	return c.client.FlushAll(ctx).Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func (c *Cache) CachePage(ctx context.Context, pageID uint, page interface{}) error {
	return c.Set(ctx, fmt.Sprintf("page:%d", pageID), page, pageTTL)
}

func (c *Cache) GetCachedPage(ctx context.Context, pageID uint, dest interface{}) error {
	return c.Get(ctx, fmt.Sprintf("page:%d", pageID), dest)
}

// InvalidatePage drops the id entry and every slug entry.
func (c *Cache) InvalidatePage(ctx context.Context, pageID uint) error {
	if err := c.Delete(ctx, fmt.Sprintf("page:%d", pageID)); err != nil {
		return err
	}
	if err := c.DeletePattern(ctx, "page:slug:*"); err != nil {
		return err
	}
	return c.Delete(ctx, "pages:all")
}

func (c *Cache) CacheListing(ctx context.Context, kind string, limit int, items interface{}, ttl time.Duration) error {
	return c.Set(ctx, listingKey(kind, limit), items, ttl)
}

func (c *Cache) GetCachedListing(ctx context.Context, kind string, limit int, dest interface{}) error {
	return c.Get(ctx, listingKey(kind, limit), dest)
}

func (c *Cache) InvalidateListing(ctx context.Context, kind string) error {
	return c.DeletePattern(ctx, fmt.Sprintf("listing:%s:*", kind))
}

func listingKey(kind string, limit int) string {
	return fmt.Sprintf("listing:%s:%d", kind, limit)
}
