package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/recetario/internal/models"
)

const (
	liveListPrefix        = "recetario:live"
	liveListGenerationKey = "recetario:live:generation"
)

// LiveListCache stores aggregated live lists per date range. Any write that
// changes meal plans, recipes, ingredients or meal types must call Invalidate.
//
// Get reports the generation it looked under, also on a miss. A list built
// after that miss must be stored with Set under the same generation, so a
// list computed across an Invalidate is never served. A negative generation
// means the cache is unavailable and Set ignores it.
type LiveListCache interface {
	Get(ctx context.Context, start, end string) (*models.AggregatedList, int64, bool)
	Set(ctx context.Context, generation int64, list *models.AggregatedList)
	Invalidate(ctx context.Context)
}

// NoopCache never stores anything
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, string) (*models.AggregatedList, int64, bool) {
	return nil, -1, false
}
func (NoopCache) Set(context.Context, int64, *models.AggregatedList) {}
func (NoopCache) Invalidate(context.Context)                         {}

// CachedLiveList returns the cached list for a range or builds and stores it.
// The list is stored under the generation read before building.
func CachedLiveList(ctx context.Context, cache LiveListCache, start, end string, build func(context.Context) (*models.AggregatedList, error)) (*models.AggregatedList, error) {
	cached, generation, ok := cache.Get(ctx, start, end)
	if ok {
		return cached, nil
	}

	list, err := build(ctx)
	if err != nil {
		return nil, err
	}
	cache.Set(ctx, generation, list)
	return list, nil
}

// RedisCache keeps live lists in Redis. Entries are keyed by a generation
// counter, so Invalidate only has to bump the counter and stale entries
// expire on their own.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

func liveListKey(generation int64, start, end string) string {
	return fmt.Sprintf("%s:%d:%s:%s", liveListPrefix, generation, start, end)
}

func (c *RedisCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, liveListGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get returns the cached list for a range, if any, and the current
// generation. Redis errors count as a miss.
func (c *RedisCache) Get(ctx context.Context, start, end string) (*models.AggregatedList, int64, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		logrus.WithError(err).Warn("live list cache unavailable")
		return nil, -1, false
	}

	data, err := c.client.Get(ctx, liveListKey(gen, start, end)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).Warn("failed to read live list cache")
		}
		return nil, gen, false
	}

	var list models.AggregatedList
	if err := json.Unmarshal(data, &list); err != nil {
		logrus.WithError(err).Warn("discarding corrupt live list cache entry")
		return nil, gen, false
	}
	return &list, gen, true
}

// Set stores a list under the given generation
func (c *RedisCache) Set(ctx context.Context, gen int64, list *models.AggregatedList) {
	if gen < 0 {
		return
	}

	data, err := json.Marshal(list)
	if err != nil {
		logrus.WithError(err).Warn("failed to encode live list")
		return
	}
	if err := c.client.Set(ctx, liveListKey(gen, list.StartDate, list.EndDate), data, c.ttl).Err(); err != nil {
		logrus.WithError(err).Warn("failed to write live list cache")
	}
}

// Invalidate drops every cached list by moving to a new generation
func (c *RedisCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, liveListGenerationKey).Err(); err != nil {
		logrus.WithError(err).Warn("failed to invalidate live list cache")
	}
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
