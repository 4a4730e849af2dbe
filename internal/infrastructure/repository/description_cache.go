package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"esign-composer/internal/config"
	"esign-composer/internal/domain/entity"
	"esign-composer/internal/domain/repository"
	"esign-composer/internal/infrastructure/redis"
)

const descriptionKeyPrefix = "esign:description:"

type descriptionCache struct {
	client *redis.RedisClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewDescriptionCache returns the Redis description cache, or a no-op one
// when Redis is disabled.
func NewDescriptionCache(client *redis.RedisClient, cfg *config.Config, logger *zap.Logger) repository.DescriptionCache {
	if !client.Enabled() {
		return NoopDescriptionCache{}
	}
	return &descriptionCache{
		client: client,
		ttl:    cfg.Redis.CacheTTL,
		logger: logger,
	}
}

func descriptionKey(guid string, modTime time.Time) string {
	return fmt.Sprintf("%s%s:%d", descriptionKeyPrefix, guid, modTime.UnixNano())
}

func (c *descriptionCache) Get(ctx context.Context, guid string, modTime time.Time) (*entity.DocumentDescription, bool) {
	raw, err := c.client.Get(ctx, descriptionKey(guid, modTime))
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.Warn("Failed to read cached description", zap.String("guid", guid), zap.Error(err))
		}
		return nil, false
	}

	var description entity.DocumentDescription
	if err := json.Unmarshal([]byte(raw), &description); err != nil {
		c.logger.Warn("Discarding malformed cached description", zap.String("guid", guid), zap.Error(err))
		return nil, false
	}
	return &description, true
}

func (c *descriptionCache) Set(ctx context.Context, guid string, modTime time.Time, description *entity.DocumentDescription) error {
	data, err := json.Marshal(description)
	if err != nil {
		return fmt.Errorf("failed to encode description: %w", err)
	}
	if err := c.client.Set(ctx, descriptionKey(guid, modTime), data, c.ttl); err != nil {
		return fmt.Errorf("failed to cache description: %w", err)
	}
	return nil
}

// NoopDescriptionCache never holds anything.
type NoopDescriptionCache struct{}

func (NoopDescriptionCache) Get(ctx context.Context, guid string, modTime time.Time) (*entity.DocumentDescription, bool) {
	return nil, false
}

func (NoopDescriptionCache) Set(ctx context.Context, guid string, modTime time.Time, description *entity.DocumentDescription) error {
	return nil
}
