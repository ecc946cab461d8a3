package cache

import (
	"context"
	"dcasassess/internal/model"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsCache holds the computed admin dashboard between completions.
// Every Invalidate bumps a generation; Set only stores stats computed at the
// current generation, so a computation that overlapped an invalidation is dropped.
type StatsCache interface {
	Get(ctx context.Context) (*model.DashboardStats, error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, generation int64, stats *model.DashboardStats) (bool, error)
	Invalidate(ctx context.Context) error
}

const (
	statsKey    = "dcas:stats:dashboard"
	statsGenKey = "dcas:stats:generation"
)

// stores ARGV[2] for ARGV[3] ms only while the generation equals ARGV[1]
var setIfGenerationScript = redis.NewScript(`
local gen = redis.call("GET", KEYS[2])
if gen == false then gen = "0" end
if gen ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

type redisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatsCache creates a new redis backed stats cache
func NewRedisStatsCache(client *redis.Client, ttl time.Duration) StatsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisStatsCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *redisStatsCache) Get(ctx context.Context) (*model.DashboardStats, error) {
	data, err := c.client.Get(ctx, statsKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stats model.DashboardStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *redisStatsCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, statsGenKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (c *redisStatsCache) Set(ctx context.Context, generation int64, stats *model.DashboardStats) (bool, error) {
	data, err := json.Marshal(stats)
	if err != nil {
		return false, err
	}
	stored, err := setIfGenerationScript.Run(ctx, c.client, []string{statsKey, statsGenKey},
		generation, data, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

func (c *redisStatsCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, statsGenKey)
		pipe.Del(ctx, statsKey)
		return nil
	})
	return err
}

type memoryStatsCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	generation int64
	stats      *model.DashboardStats
	expires    time.Time
}

// NewMemoryStatsCache creates an in-process stats cache
func NewMemoryStatsCache(ttl time.Duration) StatsCache {
	return &memoryStatsCache{ttl: ttl}
}

func (c *memoryStatsCache) Get(_ context.Context) (*model.DashboardStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stats == nil || time.Now().After(c.expires) {
		return nil, nil
	}
	s := *c.stats
	return &s, nil
}

func (c *memoryStatsCache) Generation(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, nil
}

func (c *memoryStatsCache) Set(_ context.Context, generation int64, stats *model.DashboardStats) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return false, nil
	}
	s := *stats
	c.stats = &s
	c.expires = time.Now().Add(c.ttl)
	return true, nil
}

func (c *memoryStatsCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.stats = nil
	return nil
}
