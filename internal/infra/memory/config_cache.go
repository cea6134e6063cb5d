package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"edugames-service/internal/domain"
)

// ConfigLoader fetches a decoded quiz config from a backing store.
type ConfigLoader interface {
	LoadQuizConfig(ctx context.Context, gameID string) (domain.QuizConfig, error)
}

// ConfigCache caches quiz configs with TTL to avoid re-reading and
// re-decoding the game document on every answer submission.
type ConfigCache struct {
	loader ConfigLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedConfig
}

type cachedConfig struct {
	cfg       domain.QuizConfig
	expiresAt time.Time
}

func NewConfigCache(loader ConfigLoader, ttl time.Duration) *ConfigCache {
	return &ConfigCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedConfig),
	}
}

func (c *ConfigCache) QuizConfig(ctx context.Context, gameID string) (domain.QuizConfig, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[gameID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.cfg, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(gameID, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[gameID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.cfg, nil
		}
		c.mu.RUnlock()

		cfg, err := c.loader.LoadQuizConfig(ctx, gameID)
		if err != nil {
			return domain.QuizConfig{}, err
		}

		c.mu.Lock()
		c.cache[gameID] = cachedConfig{
			cfg:       cfg,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return cfg, nil
	})
	if err != nil {
		return domain.QuizConfig{}, err
	}
	return result.(domain.QuizConfig), nil
}

// Invalidate drops a cached config after the game record changed.
func (c *ConfigCache) Invalidate(_ context.Context, gameID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, gameID)
}

func (c *ConfigCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
