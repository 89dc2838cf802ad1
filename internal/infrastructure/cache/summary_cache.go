package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
	"github.com/gestionloc/gestionloc_service/internal/infrastructure/config"
)

// SummaryCache caches computed portfolio summaries in Redis, keyed by owner
// and period. The engine itself stays pure; caching is a caller concern.
// Cache failures are logged and treated as misses.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSummaryCache creates a Redis-backed summary cache
func NewSummaryCache(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) *SummaryCache {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &SummaryCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached summary for an owner and period, or false on miss
func (c *SummaryCache) Get(ctx context.Context, ownerID uuid.UUID, period entities.Period) (*entities.PortfolioProfitSummary, bool) {
	data, err := c.client.Get(ctx, c.key(ownerID, period)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Summary cache read failed", zap.Error(err))
		return nil, false
	}

	var summary entities.PortfolioProfitSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		c.logger.Warn("Summary cache entry corrupt", zap.Error(err))
		return nil, false
	}

	return &summary, true
}

// Set stores a summary for an owner and period
func (c *SummaryCache) Set(ctx context.Context, ownerID uuid.UUID, period entities.Period, summary *entities.PortfolioProfitSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		c.logger.Warn("Summary cache marshal failed", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, c.key(ownerID, period), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Summary cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached summary for an owner and period
func (c *SummaryCache) Invalidate(ctx context.Context, ownerID uuid.UUID, period entities.Period) {
	if err := c.client.Del(ctx, c.key(ownerID, period)).Err(); err != nil {
		c.logger.Warn("Summary cache invalidation failed", zap.Error(err))
	}
}

// Ping verifies the Redis connection
func (c *SummaryCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *SummaryCache) key(ownerID uuid.UUID, period entities.Period) string {
	return fmt.Sprintf("profit:summary:%s:%d-%02d", ownerID, period.Year, int(period.Month))
}
