package skill

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter is a token bucket limiter keyed by client address. Each client
// may burst up to burst requests; tokens refill continuously, one per refill
// interval.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	burst   float64
	refill  time.Duration
	now     func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewRateLimiter creates a limiter allowing bursts of burst requests per
// client, regaining one token every refill interval.
func NewRateLimiter(burst int, refill time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		burst:   float64(burst),
		refill:  refill,
		now:     time.Now,
	}
}

// Allow reports whether a request from addr may proceed.
func (rl *RateLimiter) Allow(addr string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	b, ok := rl.buckets[addr]
	if !ok {
		rl.buckets[addr] = &bucket{tokens: rl.burst - 1, last: now}
		return true
	}

	refilled := float64(now.Sub(b.last)) / float64(rl.refill)
	b.tokens = min(b.tokens+refilled, rl.burst)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}

	return false
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientAddr(r)) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// clientAddr picks the limiter key: the first X-Forwarded-For hop when the
// request came through a proxy, then X-Real-IP, then the connection's
// remote address.
func clientAddr(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if i := strings.IndexByte(forwarded, ','); i >= 0 {
			return strings.TrimSpace(forwarded[:i])
		}
		return strings.TrimSpace(forwarded)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
