// Package ratelimit implements a fixed-window request limiter keyed by an
// arbitrary string, typically the authenticated user ID or client IP.
package ratelimit

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds rate limiter configuration.
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// staleAfter is how long an idle key is kept before the cleanup loop drops it.
const staleAfter = 10 * time.Minute

type window struct {
	startedAt time.Time
	count     int
}

// Limiter counts requests per key in one-minute windows.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	denied  atomic.Int64

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter and starts its cleanup loop.
func NewLimiter(config Config) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = DefaultConfig().RequestsPerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultConfig().CleanupInterval
	}

	rl := &Limiter{
		windows: make(map[string]*window),
		limit:   config.RequestsPerMinute,
		stop:    make(chan struct{}),
	}
	go rl.cleanupLoop(config.CleanupInterval)
	return rl
}

// Allow reports whether a request under the given key fits in the current
// window.
func (rl *Limiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.startedAt) > time.Minute {
		rl.windows[key] = &window{startedAt: now, count: 1}
		return true
	}

	w.count++
	if w.count > rl.limit {
		rl.denied.Add(1)
		return false
	}
	return true
}

// DeniedCount returns how many requests have been rejected since startup.
func (rl *Limiter) DeniedCount() int64 {
	return rl.denied.Load()
}

// Stop terminates the cleanup goroutine. Safe to call more than once.
func (rl *Limiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropStale()
		case <-rl.stop:
			return
		}
	}
}

func (rl *Limiter) dropStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-staleAfter)
	for key, w := range rl.windows {
		if w.startedAt.Before(cutoff) {
			delete(rl.windows, key)
		}
	}
}

// Middleware wraps a handler with the limiter. extractKey picks the bucket
// for each request; onLimit, when nil, answers 429 with a Retry-After.
func (rl *Limiter) Middleware(extractKey func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(extractKey(r)) {
				if onLimit != nil {
					onLimit(w, r)
					return
				}
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
