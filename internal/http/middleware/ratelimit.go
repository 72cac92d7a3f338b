package middleware

import (
	"net/http"
	"sync"
	"time"
)

// Login throttle defaults. The login endpoint checks a single shared
// clinic password, so the budget is sized against password guessing
// rather than API throughput.
const (
	DefaultLoginRate  = 1.0 // attempts per second per IP
	DefaultLoginBurst = 5
)

// LoginLimiter provides per-IP throttling of login attempts using a
// token bucket.
type LoginLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64 // tokens per second
	burst   int     // max tokens
}

type bucket struct {
	tokens   float64
	lastTime time.Time
}

// NewLoginLimiter creates a limiter allowing rate attempts/sec with the
// given burst size per IP. Non-positive arguments fall back to the
// login defaults.
func NewLoginLimiter(rate float64, burst int) *LoginLimiter {
	if rate <= 0 {
		rate = DefaultLoginRate
	}
	if burst <= 0 {
		burst = DefaultLoginBurst
	}
	rl := &LoginLimiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		burst:   burst,
	}
	// Periodically evict stale entries to prevent memory growth.
	go rl.cleanup()
	return rl
}

// Allow returns true if the attempt from ip is within the rate limit.
func (rl *LoginLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[ip]
	if !ok {
		b = &bucket{tokens: float64(rl.burst), lastTime: now}
		rl.buckets[ip] = b
	}

	elapsed := now.Sub(b.lastTime).Seconds()
	b.tokens += elapsed * rl.rate
	if b.tokens > float64(rl.burst) {
		b.tokens = float64(rl.burst)
	}
	b.lastTime = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *LoginLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-10 * time.Minute)
		for ip, b := range rl.buckets {
			if b.lastTime.Before(cutoff) {
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit returns an HTTP middleware that rejects attempts exceeding
// the configured rate with 429 and the JSON error shape the login
// endpoint uses.
func RateLimit(rate float64, burst int) func(http.Handler) http.Handler {
	limiter := NewLoginLimiter(rate, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			// Prefer X-Real-Ip set by chi's RealIP middleware.
			if xri := r.Header.Get("X-Real-Ip"); xri != "" {
				ip = xri
			}
			if !limiter.Allow(ip) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"too many login attempts"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
