package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hotelchain/internal/pricing"
	"hotelchain/pkg/config"
	"hotelchain/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PricingCache stores the current pricing of a hotel room type until the end
// of its validity window. A nil client turns every call into a no-op miss.
type PricingCache struct {
	client *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewRedisClient connects to Redis, or returns nil when no address is set.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	if cfg.Addr == "" {
		logger.Info("Redis address not set, pricing cache disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}

	logger.Info("Redis connection established", zap.String("addr", cfg.Addr))
	return client, nil
}

func NewPricingCache(client *redis.Client, logger *zap.Logger) *PricingCache {
	return &PricingCache{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

func Key(hotelID, roomType string) string {
	return fmt.Sprintf("pricing:%s:%s", hotelID, roomType)
}

// TTL is the part of the validity window left at now, or zero when expired.
func TTL(res *pricing.Result, now time.Time) time.Duration {
	ttl := res.ValidUntil.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// Get returns the cached pricing, or nil on a miss. Entries whose window has
// closed are treated as misses.
func (c *PricingCache) Get(ctx context.Context, hotelID, roomType string) (*pricing.Result, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, Key(hotelID, roomType)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheLookup(false, nil)
		return nil, nil
	}
	if err != nil {
		metrics.RecordCacheLookup(false, err)
		return nil, fmt.Errorf("failed to read cached pricing: %w", err)
	}

	var res pricing.Result
	if err := json.Unmarshal(data, &res); err != nil {
		metrics.RecordCacheLookup(false, err)
		return nil, fmt.Errorf("failed to decode cached pricing: %w", err)
	}
	if !res.ValidAt(c.now()) {
		metrics.RecordCacheLookup(false, nil)
		return nil, nil
	}

	metrics.RecordCacheLookup(true, nil)
	return &res, nil
}

// Set caches res until res.ValidUntil. Already expired results are skipped.
func (c *PricingCache) Set(ctx context.Context, hotelID, roomType string, res *pricing.Result) error {
	if c == nil || c.client == nil {
		return nil
	}

	ttl := TTL(res, c.now())
	if ttl == 0 {
		return nil
	}

	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode pricing: %w", err)
	}
	if err := c.client.Set(ctx, Key(hotelID, roomType), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache pricing: %w", err)
	}

	c.logger.Debug("Cached pricing",
		zap.String("hotel_id", hotelID),
		zap.String("room_type", roomType),
		zap.Duration("ttl", ttl),
	)
	return nil
}

// Invalidate drops the cached pricing, e.g. after a demand update.
func (c *PricingCache) Invalidate(ctx context.Context, hotelID, roomType string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, Key(hotelID, roomType)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached pricing: %w", err)
	}
	return nil
}

func (c *PricingCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
