package rate

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter: misma ventana fija que RedisLimiter pero in-process.
// Para dev y single-node; no comparte estado entre réplicas.
type MemoryLimiter struct {
	mu     sync.Mutex
	hits   map[string]int64
	starts map[string]time.Time
	Max    int64
	Window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		hits:   map[string]int64{},
		starts: map[string]time.Time{},
		Max:    int64(max),
		Window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now().UTC()
	winStart := now.Truncate(l.Window)

	if start, ok := l.starts[key]; !ok || !start.Equal(winStart) {
		l.starts[key] = winStart
		l.hits[key] = 0
	}
	l.hits[key]++

	hits := l.hits[key]
	allowed := hits <= l.Max
	remaining := l.Max - hits
	if remaining < 0 {
		remaining = 0
	}

	res := Result{Allowed: allowed, Remaining: remaining}
	if !allowed {
		res.RetryAfter = winStart.Add(l.Window).Sub(now)
	}
	return res, nil
}
