package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(limit int, window time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	return newRateLimiter(limit, window, clock.Now), clock
}

func TestTakeBurstThenDeny(t *testing.T) {
	rl, _ := newTestLimiter(3, time.Minute)

	for i := range 3 {
		if ok, _ := rl.take("198.51.100.1"); !ok {
			t.Fatalf("request %d denied inside the burst", i+1)
		}
	}
	ok, wait := rl.take("198.51.100.1")
	if ok {
		t.Fatal("fourth request allowed past the burst")
	}
	if wait != 20*time.Second {
		t.Errorf("wait = %v, want one token's refill time (20s)", wait)
	}
	if ok, _ := rl.take("198.51.100.2"); !ok {
		t.Error("a second client must have its own bucket")
	}
}

func TestTakeRefillsOverTime(t *testing.T) {
	rl, clock := newTestLimiter(2, time.Minute)

	rl.take("c")
	rl.take("c")
	if ok, _ := rl.take("c"); ok {
		t.Fatal("bucket should be empty")
	}

	clock.Advance(29 * time.Second)
	if ok, _ := rl.take("c"); ok {
		t.Error("less than one token regained after 29s")
	}
	clock.Advance(2 * time.Second)
	if ok, _ := rl.take("c"); !ok {
		t.Error("one token should be back after 31s")
	}
	if ok, _ := rl.take("c"); ok {
		t.Error("only one token should have refilled")
	}
}

func TestTakeNeverExceedsBurst(t *testing.T) {
	rl, clock := newTestLimiter(2, time.Second)

	rl.take("c")
	clock.Advance(time.Hour)

	allowed := 0
	for range 5 {
		if ok, _ := rl.take("c"); ok {
			allowed++
		}
	}
	if allowed != 2 {
		t.Errorf("allowed %d after a long idle, want the burst of 2", allowed)
	}
}

func TestSweepDropsFullBuckets(t *testing.T) {
	rl, clock := newTestLimiter(4, time.Minute)

	rl.take("idle")
	clock.Advance(50 * time.Second)
	rl.take("busy")
	rl.take("busy")
	rl.take("busy")
	clock.Advance(20 * time.Second)

	rl.sweep()

	if _, ok := rl.buckets["idle"]; ok {
		t.Error("idle bucket has refilled and should be dropped")
	}
	if _, ok := rl.buckets["busy"]; !ok {
		t.Error("busy bucket is still draining and should be kept")
	}
}

func TestMiddlewarePageAndAPIResponses(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "192.0.2.10:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := serve("/e/launch-party"); rec.Code != http.StatusNoContent {
		t.Fatalf("first request: status %d", rec.Code)
	}

	page := serve("/e/launch-party")
	if page.Code != http.StatusTooManyRequests {
		t.Fatalf("page: status %d, want 429", page.Code)
	}
	if got := page.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}

	api := serve("/api/events/launch-party")
	if api.Code != http.StatusTooManyRequests {
		t.Fatalf("api: status %d, want 429", api.Code)
	}
	var body struct{ Error, Code string }
	if err := json.Unmarshal(api.Body.Bytes(), &body); err != nil {
		t.Fatalf("api body is not JSON: %v", err)
	}
	if body.Code != "rate_limited" || body.Error != "too many requests" {
		t.Errorf("api body = %+v", body)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewPerMinute(10)
	rl.Stop()
	rl.Stop()
}

func TestRetryAfter(t *testing.T) {
	for wait, want := range map[time.Duration]string{
		0:                       "1",
		-time.Second:            "1",
		300 * time.Millisecond:  "1",
		time.Second:             "1",
		1001 * time.Millisecond: "2",
		45 * time.Second:        "45",
	} {
		if got := retryAfter(wait); got != want {
			t.Errorf("retryAfter(%v) = %q, want %q", wait, got, want)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"first forwarded hop", map[string]string{"X-Forwarded-For": " 203.0.113.9 , 10.0.0.1"}, "10.0.0.2:80", "203.0.113.9"},
		{"forwarded beats real ip", map[string]string{"X-Forwarded-For": "203.0.113.9", "X-Real-IP": "198.51.100.4"}, "10.0.0.2:80", "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:80", "198.51.100.4"},
		{"remote host", nil, "10.0.0.2:80", "10.0.0.2"},
		{"remote ipv6", nil, "[2001:db8::7]:8443", "2001:db8::7"},
		{"remote without port", nil, "unix-socket", "unix-socket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
