package ratelimit

import (
	"context"
	"log"
	"time"

	"pastebin/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const counterTimeout = 100 * time.Millisecond

// incrScript bumps the window counter only while it is under the limit, and
// arms the expiry on first increment so the window resets itself. Returning
// the untouched count past the limit keeps rejected requests from extending
// pressure on the key.
var incrScript = redis.NewScript(`
	local current = redis.call("GET", KEYS[1])
	if current == false then
		current = 0
	else
		current = tonumber(current)
	end
	if current >= tonumber(ARGV[2]) then
		return current + 1
	end
	local new_val = redis.call("INCR", KEYS[1])
	if new_val == 1 then
		redis.call("PEXPIRE", KEYS[1], ARGV[1])
	end
	return new_val
`)

// counter is the storage seam for the Redis limiter. incrWindow returns the
// counter value after this request's increment (or limit+1 when already over).
type counter interface {
	incrWindow(ctx context.Context, key string, window time.Duration, limit int) (int, error)
}

type redisCounter struct {
	client *redis.Client
}

func (c *redisCounter) incrWindow(ctx context.Context, key string, window time.Duration, limit int) (int, error) {
	return incrScript.Run(ctx, c.client, []string{key}, window.Milliseconds(), limit).Int()
}

// RedisLimiter shares fixed-window counters across replicas. When Redis is
// unreachable it degrades to an in-process limiter rather than letting
// traffic through uncounted.
type RedisLimiter struct {
	counter  counter
	limits   map[Action]Limit
	fallback *MemoryLimiter
	now      func() time.Time
}

func NewRedis(client *redis.Client, limits map[Action]Limit) *RedisLimiter {
	return &RedisLimiter{
		counter:  &redisCounter{client: client},
		limits:   limits,
		fallback: NewMemory(limits),
		now:      time.Now,
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, identity string, action Action) Result {
	limit, ok := r.limits[action]
	if !ok || limit.Max <= 0 {
		return Result{Allowed: true, Limit: limit.Max, Reset: r.now()}
	}

	opCtx, cancel := context.WithTimeout(ctx, counterTimeout)
	defer cancel()

	key := "ratelimit:" + string(action) + ":" + identity
	count, err := r.counter.incrWindow(opCtx, key, limit.Window, limit.Max)
	if err != nil {
		log.Printf("redis rate limit unavailable, using local fallback: %v", err)
		metrics.RateLimitFallbacks.Inc()
		return r.fallback.Allow(ctx, identity, action)
	}

	reset := r.now().Add(limit.Window)
	if count > limit.Max {
		return Result{Allowed: false, Limit: limit.Max, Remaining: 0, Reset: reset}
	}
	return Result{
		Allowed:   true,
		Limit:     limit.Max,
		Remaining: limit.Max - count,
		Reset:     reset,
	}
}

func (r *RedisLimiter) Stop() {
	r.fallback.Stop()
}
