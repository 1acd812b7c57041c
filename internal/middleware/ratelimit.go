// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// sweepInterval is how often idle buckets are dropped.
const sweepInterval = 5 * time.Minute

// bucket is one client's token bucket. tokens is fractional so refill can
// be computed from elapsed time alone.
type bucket struct {
	tokens float64
	last   time.Time
}

// RateLimiter throttles public page renders per client IP with a token
// bucket: a client may burst up to limit requests, and regains limit
// tokens per window.
type RateLimiter struct {
	limit  float64
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter returns a limiter allowing limit requests per window and
// starts its background sweeper. Call Stop when done.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := newRateLimiter(limit, window, time.Now)
	go rl.sweepLoop()
	return rl
}

// NewPerMinute is NewRateLimiter with a one minute window.
func NewPerMinute(limit int) *RateLimiter {
	return NewRateLimiter(limit, time.Minute)
}

func newRateLimiter(limit int, window time.Duration, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		limit:   float64(limit),
		window:  window,
		now:     now,
		buckets: make(map[string]*bucket),
		done:    make(chan struct{}),
	}
}

// Stop ends the sweeper. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) sweepLoop() {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			rl.sweep()
		case <-rl.done:
			return
		}
	}
}

// refillRate is tokens regained per nanosecond.
func (rl *RateLimiter) refillRate() float64 {
	return rl.limit / float64(rl.window)
}

// take spends one token for key. When the bucket is empty it reports how
// long until the next token arrives.
func (rl *RateLimiter) take(key string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.limit, last: now}
		rl.buckets[key] = b
	} else {
		elapsed := now.Sub(b.last)
		b.tokens = math.Min(rl.limit, b.tokens+float64(elapsed)*rl.refillRate())
		b.last = now
	}

	if b.tokens < 1 {
		missing := 1 - b.tokens
		return false, time.Duration(missing * float64(rl.window) / rl.limit)
	}
	b.tokens--
	return true, 0
}

// sweep drops buckets that have refilled completely, since a fresh bucket
// behaves the same.
func (rl *RateLimiter) sweep() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, b := range rl.buckets {
		if b.tokens+float64(now.Sub(b.last))*rl.refillRate() >= rl.limit {
			delete(rl.buckets, key)
		}
	}
}

// Middleware rejects requests from clients whose bucket is empty with 429
// and a Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		allowed, wait := rl.take(ip)
		if allowed {
			next.ServeHTTP(w, r)
			return
		}
		slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path, "retry_in", wait.String())
		w.Header().Set("Retry-After", retryAfter(wait))
		respondError(w, r, http.StatusTooManyRequests, "rate_limited")
	})
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection's remote host.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// retryAfter rounds wait up to whole seconds, minimum one.
func retryAfter(wait time.Duration) string {
	return strconv.Itoa(max(1, int(math.Ceil(wait.Seconds()))))
}
