package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoginLimiterAllowsBurstThenBlocks(t *testing.T) {
	rl := NewLoginLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("attempt %d should be within the burst", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("attempt past the burst should be blocked")
	}
	// A different IP has its own bucket.
	if !rl.Allow("10.0.0.2") {
		t.Error("fresh IP should not be affected")
	}
}

func TestNewLoginLimiterAppliesLoginDefaults(t *testing.T) {
	rl := NewLoginLimiter(0, 0)
	if rl.rate != DefaultLoginRate || rl.burst != DefaultLoginBurst {
		t.Errorf("expected defaults %v/%d, got %v/%d", DefaultLoginRate, DefaultLoginBurst, rl.rate, rl.burst)
	}
}

func TestRateLimitMiddlewareReturnsJSON429(t *testing.T) {
	handler := RateLimit(1, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	first.Header.Set("X-Real-Ip", "203.0.113.9")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("first attempt should pass, got %d", rec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	second.Header.Set("X-Real-Ip", "203.0.113.9")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second attempt should be throttled, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON error body, got content type %q", ct)
	}
	if body := rec.Body.String(); body != `{"error":"too many login attempts"}` {
		t.Errorf("unexpected body: %s", body)
	}
}
