package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/pipeline/trigger", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := do("10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, code, http.StatusOK)
		}
	}
	if code := do("10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Errorf("over-limit request: status = %d, want %d", code, http.StatusTooManyRequests)
	}

	// Another caller is unaffected.
	if code := do("10.0.0.2:1234"); code != http.StatusOK {
		t.Errorf("second caller: status = %d, want %d", code, http.StatusOK)
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)
	if !rl.allow("10.0.0.3:1234") {
		t.Fatal("first request should be allowed")
	}
	if rl.allow("10.0.0.3:1234") {
		t.Fatal("second request in the window should be rejected")
	}
	time.Sleep(20 * time.Millisecond)
	if !rl.allow("10.0.0.3:1234") {
		t.Error("request after the window lapses should be allowed")
	}
}
