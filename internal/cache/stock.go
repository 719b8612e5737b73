package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const stockTTL = 30 * time.Second

// StockCache is a read-through cache for current stock per
// (location, item). It only serves the advisory read paths; mutation
// paths always go to the database and invalidate.
type StockCache interface {
	Get(ctx context.Context, locationID, itemID string) (float64, bool)
	Set(ctx context.Context, locationID, itemID string, qty float64)
	Invalidate(ctx context.Context, locationID, itemID string)
}

type RedisStockCache struct {
	client *redis.Client
}

func NewRedisStockCache(addr, password string, db int) (*RedisStockCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStockCache{client: client}, nil
}

func stockKey(locationID, itemID string) string {
	return fmt.Sprintf("stock:%s:%s", locationID, itemID)
}

func (c *RedisStockCache) Get(ctx context.Context, locationID, itemID string) (float64, bool) {
	val, err := c.client.Get(ctx, stockKey(locationID, itemID)).Result()
	if err != nil {
		return 0, false
	}
	qty, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return qty, true
}

func (c *RedisStockCache) Set(ctx context.Context, locationID, itemID string, qty float64) {
	c.client.Set(ctx, stockKey(locationID, itemID), strconv.FormatFloat(qty, 'f', -1, 64), stockTTL)
}

func (c *RedisStockCache) Invalidate(ctx context.Context, locationID, itemID string) {
	c.client.Del(ctx, stockKey(locationID, itemID))
}

func (c *RedisStockCache) Close() error {
	return c.client.Close()
}

// NopStockCache is used when Redis is disabled and in tests.
type NopStockCache struct{}

func (NopStockCache) Get(ctx context.Context, locationID, itemID string) (float64, bool) {
	return 0, false
}
func (NopStockCache) Set(ctx context.Context, locationID, itemID string, qty float64)  {}
func (NopStockCache) Invalidate(ctx context.Context, locationID, itemID string)        {}
