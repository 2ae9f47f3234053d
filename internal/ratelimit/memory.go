package ratelimit

import (
	"context"
	"sync"
	"time"
)

const cleanupInterval = 5 * time.Minute

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a fixed-window counter held in process memory. Windows are
// lazily created per (identity, action) and swept periodically so the map does
// not grow without bound.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limits  map[Action]Limit
	quit    chan struct{}
	now     func() time.Time
}

func NewMemory(limits map[Action]Limit) *MemoryLimiter {
	m := &MemoryLimiter{
		windows: make(map[string]*window),
		limits:  limits,
		quit:    make(chan struct{}),
		now:     time.Now,
	}
	go m.cleanupLoop()
	return m
}

func (m *MemoryLimiter) Allow(_ context.Context, identity string, action Action) Result {
	limit, ok := m.limits[action]
	if !ok || limit.Max <= 0 {
		return Result{Allowed: true, Limit: limit.Max, Reset: m.now()}
	}

	key := identity + ":" + string(action)
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	w, exists := m.windows[key]
	if !exists || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(limit.Window)}
		m.windows[key] = w
	}

	if w.count >= limit.Max {
		return Result{Allowed: false, Limit: limit.Max, Remaining: 0, Reset: w.resetAt}
	}
	w.count++
	return Result{
		Allowed:   true,
		Limit:     limit.Max,
		Remaining: limit.Max - w.count,
		Reset:     w.resetAt,
	}
}

func (m *MemoryLimiter) Stop() {
	close(m.quit)
}

func (m *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.evictStale()
		case <-m.quit:
			return
		}
	}
}

func (m *MemoryLimiter) evictStale() {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, key)
		}
	}
}
