package middleware

import (
	"net/http"
	"sync"
	"time"
)

// window is a fixed-window request counter for one caller.
type window struct {
	started time.Time
	count   int
}

// RateLimiter throttles per remote address. It guards the routes that
// fan out to paid APIs: manual topic/script generation and the pipeline
// trigger, where a stuck dashboard retry loop could burn real quota.
type RateLimiter struct {
	mu      sync.Mutex
	callers map[string]*window
	limit   int
	period  time.Duration
}

func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		callers: make(map[string]*window),
		limit:   limit,
		period:  period,
	}
	go rl.evictStale()
	return rl
}

// evictStale drops callers whose window has lapsed so the map does not
// grow with one entry per address forever.
func (rl *RateLimiter) evictStale() {
	ticker := time.NewTicker(rl.period)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		for addr, w := range rl.callers {
			if time.Since(w.started) > rl.period {
				delete(rl.callers, addr)
			}
		}
		rl.mu.Unlock()
	}
}

// allow counts one request from addr and reports whether it fits the
// current window.
func (rl *RateLimiter) allow(addr string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.callers[addr]
	if !ok || time.Since(w.started) > rl.period {
		rl.callers[addr] = &window{started: time.Now(), count: 1}
		return true
	}
	w.count++
	return w.count <= rl.limit
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r.RemoteAddr) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
