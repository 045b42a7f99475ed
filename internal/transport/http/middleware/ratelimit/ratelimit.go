// Package ratelimit provides a per-client token bucket limiter.
package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"sync"
	"time"
)

// bucket represents a token bucket for rate limiting.
type bucket struct {
	tokens   float64
	lastFill time.Time
	mu       sync.Mutex
}

// Limiter tracks rate limits per client key.
type Limiter struct {
	perMinute int
	buckets   sync.Map // map[key]*bucket
	now       func() time.Time
}

// New creates a limiter allowing perMinute requests per key. Zero or less
// means unlimited.
func New(perMinute int) *Limiter {
	return &Limiter{perMinute: perMinute, now: time.Now}
}

// Allow checks if a request is allowed under the rate limit.
func (l *Limiter) Allow(key string) bool {
	if l == nil || l.perMinute <= 0 {
		return true
	}

	now := l.now()
	val, _ := l.buckets.LoadOrStore(key, &bucket{
		tokens:   float64(l.perMinute),
		lastFill: now,
	})
	b := val.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	// Refill tokens based on elapsed time
	elapsed := now.Sub(b.lastFill).Seconds()
	b.tokens += elapsed * float64(l.perMinute) / 60.0
	if b.tokens > float64(l.perMinute) {
		b.tokens = float64(l.perMinute)
	}
	b.lastFill = now

	if b.tokens >= 1.0 {
		b.tokens--
		return true
	}
	return false
}

// Sweep drops buckets idle for longer than idle. Full buckets carry no state
// worth keeping.
func (l *Limiter) Sweep(idle time.Duration) {
	if l == nil {
		return
	}
	cutoff := l.now().Add(-idle)
	l.buckets.Range(func(key, val any) bool {
		b := val.(*bucket)
		b.mu.Lock()
		stale := b.lastFill.Before(cutoff)
		b.mu.Unlock()
		if stale {
			l.buckets.Delete(key)
		}
		return true
	})
}

// ClientKey identifies the caller by its credential, falling back to the
// remote IP for anonymous requests. Credentials are hashed so the limiter
// never holds them in memory.
func ClientKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		sum := sha256.Sum256([]byte(auth))
		return "cred:" + hex.EncodeToString(sum[:8])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
