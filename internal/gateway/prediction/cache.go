// internal/gateway/prediction/cache.go
package prediction

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anmolairi03/diabetes/internal/common/database"
	"github.com/anmolairi03/diabetes/internal/common/logger"
	"github.com/anmolairi03/diabetes/internal/models"
)

// Cache is a read-through store of upstream predictions keyed by the input
// triple. Any redis error degrades to a miss; the cache never fails a
// look-up.
type Cache struct {
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCache(redisClient *database.RedisClient, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{
		redis:  redisClient,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "prediction-cache"}),
	}
}

// CacheKey builds the redis key for an input triple.
func CacheKey(input models.RiskInput) string {
	return "prediction:" +
		strconv.FormatFloat(input.BMI, 'g', -1, 64) + ":" +
		strconv.FormatFloat(input.S5, 'g', -1, 64) + ":" +
		strconv.FormatFloat(input.BP, 'g', -1, 64)
}

func (c *Cache) Get(ctx context.Context, input models.RiskInput) (float64, bool) {
	key := CacheKey(input)

	val, err := c.redis.Get(ctx, key)
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed, treating as miss", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return 0, false
	}

	value, err := strconv.ParseFloat(val, 64)
	if err != nil {
		c.logger.Warn("cache entry unparsable, treating as miss", map[string]interface{}{
			"key":   key,
			"value": val,
		})
		return 0, false
	}
	return value, true
}

func (c *Cache) Set(ctx context.Context, input models.RiskInput, prediction float64) {
	key := CacheKey(input)
	if err := c.redis.Set(ctx, key, strconv.FormatFloat(prediction, 'g', -1, 64), c.ttl); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
