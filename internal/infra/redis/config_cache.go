package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"edugames-service/internal/domain"
)

// ConfigLoader fetches a decoded quiz config from a backing store.
type ConfigLoader interface {
	LoadQuizConfig(ctx context.Context, gameID string) (domain.QuizConfig, error)
}

// ConfigCache caches serialized quiz configs in Redis and falls back to a
// loader on cache miss. Stored as: SET game:{gameID}:config {json} EX ttl.
type ConfigCache struct {
	client *redis.Client
	loader ConfigLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewConfigCache(client *redis.Client, loader ConfigLoader, ttl time.Duration) *ConfigCache {
	return &ConfigCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ConfigCache) QuizConfig(ctx context.Context, gameID string) (domain.QuizConfig, error) {
	key := c.key(gameID)

	if cfg, ok := c.fromCache(ctx, key); ok {
		return cfg, nil
	}

	result, err, _ := c.sf.Do(gameID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if cfg, ok := c.fromCache(ctx, key); ok {
			return cfg, nil
		}

		cfg, err := c.loader.LoadQuizConfig(ctx, gameID)
		if err != nil {
			return domain.QuizConfig{}, err
		}

		data, err := json.Marshal(cfg)
		if err != nil {
			return domain.QuizConfig{}, fmt.Errorf("encode config: %w", err)
		}
		// Best effort: a failed cache write only costs the next reload.
		_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()

		return cfg, nil
	})
	if err != nil {
		return domain.QuizConfig{}, err
	}
	return result.(domain.QuizConfig), nil
}

// Invalidate drops a cached config after the game record changed.
func (c *ConfigCache) Invalidate(ctx context.Context, gameID string) {
	_ = c.client.Del(ctx, c.key(gameID)).Err()
}

func (c *ConfigCache) fromCache(ctx context.Context, key string) (domain.QuizConfig, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) || err != nil {
		return domain.QuizConfig{}, false
	}
	var cfg domain.QuizConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return domain.QuizConfig{}, false
	}
	return cfg, true
}

func (c *ConfigCache) key(gameID string) string {
	return "game:" + gameID + ":config"
}

func (c *ConfigCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
