// Package ratelimit provides fixed-window request limiting keyed by client
// identity and action. Two backends implement the same interface: a Redis
// counter shared across replicas and an in-process fallback for single-node
// deployments or Redis outages.
package ratelimit

import (
	"context"
	"time"

	"pastebin/internal/config"

	"github.com/redis/go-redis/v9"
)

// Action names a rate-limited operation class.
type Action string

const (
	ActionCreate  Action = "create"
	ActionView    Action = "view"
	ActionDecrypt Action = "decrypt"
)

// Limit is the budget for one action within a window.
type Limit struct {
	Max    int
	Window time.Duration
}

// Result reports one limiter decision with the values the HTTP layer echoes
// back in X-RateLimit headers.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter decides whether a request identified by (identity, action) fits in
// the current window. Implementations never return an error; a degradedable
// backend falls back to a local decision instead.
type Limiter interface {
	Allow(ctx context.Context, identity string, action Action) Result
	Stop()
}

func limitsFromConfig(cfg config.RateLimitConfig) map[Action]Limit {
	return map[Action]Limit{
		ActionCreate:  {Max: cfg.CreatePerMin, Window: time.Minute},
		ActionView:    {Max: cfg.ViewPerMin, Window: time.Minute},
		ActionDecrypt: {Max: cfg.DecryptPer5Min, Window: 5 * time.Minute},
	}
}

// New selects a backend from config. With the redis backend a reachable
// client must be supplied; the memory backend ignores it.
func New(cfg config.RateLimitConfig, client *redis.Client) Limiter {
	limits := limitsFromConfig(cfg)
	if cfg.Backend == "redis" && client != nil {
		return NewRedis(client, limits)
	}
	return NewMemory(limits)
}
