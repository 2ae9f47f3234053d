package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"pastebin/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLimits() map[Action]Limit {
	return map[Action]Limit{
		ActionCreate:  {Max: 3, Window: time.Minute},
		ActionView:    {Max: 5, Window: time.Minute},
		ActionDecrypt: {Max: 2, Window: 5 * time.Minute},
	}
}

func TestMemoryLimiter_Window(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(testLimits())
	defer m.Stop()

	base := time.Now()
	now := base
	m.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		res := m.Allow(ctx, "1.2.3.4", ActionCreate)
		require.True(t, res.Allowed, "request %d should pass", i+1)
		assert.Equal(t, 3, res.Limit)
		assert.Equal(t, 3-(i+1), res.Remaining)
	}

	res := m.Allow(ctx, "1.2.3.4", ActionCreate)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, base.Add(time.Minute), res.Reset)

	// A different identity has its own window.
	res = m.Allow(ctx, "5.6.7.8", ActionCreate)
	assert.True(t, res.Allowed)

	// So does a different action for the same identity.
	res = m.Allow(ctx, "1.2.3.4", ActionView)
	assert.True(t, res.Allowed)

	// The window resets once its deadline passes.
	now = base.Add(time.Minute)
	res = m.Allow(ctx, "1.2.3.4", ActionCreate)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)
}

func TestMemoryLimiter_UnknownActionPasses(t *testing.T) {
	m := NewMemory(map[Action]Limit{})
	defer m.Stop()

	res := m.Allow(context.Background(), "1.2.3.4", ActionCreate)
	assert.True(t, res.Allowed)
}

func TestMemoryLimiter_EvictStale(t *testing.T) {
	m := NewMemory(testLimits())
	defer m.Stop()

	base := time.Now()
	now := base
	m.now = func() time.Time { return now }

	m.Allow(context.Background(), "1.2.3.4", ActionCreate)
	require.Len(t, m.windows, 1)

	now = base.Add(2 * time.Minute)
	m.evictStale()
	assert.Empty(t, m.windows)
}

type stubCounter struct {
	count int
	err   error
	calls int
}

func (s *stubCounter) incrWindow(ctx context.Context, key string, window time.Duration, limit int) (int, error) {
	s.calls++
	return s.count, s.err
}

func TestRedisLimiter_Allow(t *testing.T) {
	ctx := context.Background()

	t.Run("under the limit", func(t *testing.T) {
		r := &RedisLimiter{
			counter:  &stubCounter{count: 2},
			limits:   testLimits(),
			fallback: NewMemory(testLimits()),
			now:      time.Now,
		}
		defer r.Stop()

		res := r.Allow(ctx, "1.2.3.4", ActionCreate)
		assert.True(t, res.Allowed)
		assert.Equal(t, 3, res.Limit)
		assert.Equal(t, 1, res.Remaining)
	})

	t.Run("over the limit", func(t *testing.T) {
		r := &RedisLimiter{
			counter:  &stubCounter{count: 4},
			limits:   testLimits(),
			fallback: NewMemory(testLimits()),
			now:      time.Now,
		}
		defer r.Stop()

		res := r.Allow(ctx, "1.2.3.4", ActionCreate)
		assert.False(t, res.Allowed)
		assert.Equal(t, 0, res.Remaining)
	})

	t.Run("falls back to local windows on error", func(t *testing.T) {
		stub := &stubCounter{err: errors.New("connection refused")}
		r := &RedisLimiter{
			counter:  stub,
			limits:   testLimits(),
			fallback: NewMemory(testLimits()),
			now:      time.Now,
		}
		defer r.Stop()

		// The local fallback still enforces the budget.
		for i := 0; i < 3; i++ {
			res := r.Allow(ctx, "1.2.3.4", ActionCreate)
			assert.True(t, res.Allowed)
		}
		res := r.Allow(ctx, "1.2.3.4", ActionCreate)
		assert.False(t, res.Allowed)
		assert.Equal(t, 4, stub.calls)
	})
}

func TestNew_BackendSelection(t *testing.T) {
	cfg := config.RateLimitConfig{
		Backend:        "memory",
		CreatePerMin:   10,
		ViewPerMin:     60,
		DecryptPer5Min: 5,
	}

	l := New(cfg, nil)
	defer l.Stop()
	_, ok := l.(*MemoryLimiter)
	assert.True(t, ok)

	// Redis backend without a client degrades to memory instead of panicking.
	cfg.Backend = "redis"
	l2 := New(cfg, nil)
	defer l2.Stop()
	_, ok = l2.(*MemoryLimiter)
	assert.True(t, ok)
}

func TestLimitsFromConfig(t *testing.T) {
	limits := limitsFromConfig(config.RateLimitConfig{
		CreatePerMin:   10,
		ViewPerMin:     60,
		DecryptPer5Min: 5,
	})

	assert.Equal(t, Limit{Max: 10, Window: time.Minute}, limits[ActionCreate])
	assert.Equal(t, Limit{Max: 60, Window: time.Minute}, limits[ActionView])
	assert.Equal(t, Limit{Max: 5, Window: 5 * time.Minute}, limits[ActionDecrypt])
}
