package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  RateLimitConfig
		wantErr bool
	}{
		{"valid", RateLimitConfig{RequestsPerWindow: 10, WindowDuration: time.Minute}, false},
		{"zero requests", RateLimitConfig{RequestsPerWindow: 0, WindowDuration: time.Minute}, true},
		{"negative requests", RateLimitConfig{RequestsPerWindow: -1, WindowDuration: time.Minute}, true},
		{"zero window", RateLimitConfig{RequestsPerWindow: 10, WindowDuration: 0}, true},
		{"negative window", RateLimitConfig{RequestsPerWindow: 10, WindowDuration: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultLimits(t *testing.T) {
	global := DefaultGlobalLimit()
	if global.RequestsPerWindow != 100 || global.WindowDuration != time.Minute {
		t.Errorf("global limit = %+v", global)
	}

	selection := DefaultSelectionLimit()
	if selection.RequestsPerWindow != 30 || selection.WindowDuration != time.Minute {
		t.Errorf("selection limit = %+v", selection)
	}

	if global.Scope == selection.Scope {
		t.Errorf("global and selection scopes both %q; stacked limiters would share a bucket", global.Scope)
	}
}

func TestInMemoryStoreAllowsUpToLimit(t *testing.T) {
	store := NewInMemoryRateLimitStore()
	config := RateLimitConfig{RequestsPerWindow: 3, WindowDuration: time.Minute}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _ := store.Allow(ctx, "k", config)
		if !allowed {
			t.Fatalf("request %d blocked, want allowed", i+1)
		}
	}

	allowed, retryAfter := store.Allow(ctx, "k", config)
	if allowed {
		t.Error("request over limit allowed")
	}
	if retryAfter <= 0 || retryAfter > 60 {
		t.Errorf("retryAfter = %d, want in (0, 60]", retryAfter)
	}
}

func TestInMemoryStoreKeysIndependent(t *testing.T) {
	store := NewInMemoryRateLimitStore()
	config := RateLimitConfig{RequestsPerWindow: 1, WindowDuration: time.Minute}
	ctx := context.Background()

	if allowed, _ := store.Allow(ctx, "a", config); !allowed {
		t.Fatal("first request for key a blocked")
	}
	if allowed, _ := store.Allow(ctx, "a", config); allowed {
		t.Error("second request for key a allowed")
	}
	if allowed, _ := store.Allow(ctx, "b", config); !allowed {
		t.Error("first request for key b blocked; keys should be independent")
	}
}

func TestInMemoryStoreWindowReset(t *testing.T) {
	store := NewInMemoryRateLimitStore()
	config := RateLimitConfig{RequestsPerWindow: 1, WindowDuration: 20 * time.Millisecond}
	ctx := context.Background()

	store.Allow(ctx, "k", config)
	if allowed, _ := store.Allow(ctx, "k", config); allowed {
		t.Fatal("request within window allowed over limit")
	}

	time.Sleep(30 * time.Millisecond)

	if allowed, _ := store.Allow(ctx, "k", config); !allowed {
		t.Error("request after window expiry blocked")
	}
}

func TestInMemoryStoreCleanup(t *testing.T) {
	store := NewInMemoryRateLimitStore()
	config := RateLimitConfig{RequestsPerWindow: 5, WindowDuration: 10 * time.Millisecond}
	ctx := context.Background()

	store.Allow(ctx, "stale", config)
	time.Sleep(20 * time.Millisecond)
	store.Allow(ctx, "fresh", RateLimitConfig{RequestsPerWindow: 5, WindowDuration: time.Minute})

	store.Cleanup()

	store.mu.Lock()
	defer store.mu.Unlock()
	if _, exists := store.buckets["stale"]; exists {
		t.Error("expired bucket survived cleanup")
	}
	if _, exists := store.buckets["fresh"]; !exists {
		t.Error("live bucket removed by cleanup")
	}
}

func TestIPKeyFunc(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr with port", "192.0.2.1:4242", nil, "192.0.2.1"},
		{"remote addr without port", "192.0.2.1", nil, "192.0.2.1"},
		{"x-forwarded-for single", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.9"}, "203.0.113.9"},
		{"x-forwarded-for chain", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.2"}, "203.0.113.9"},
		{"x-real-ip", "10.0.0.1:80", map[string]string{"X-Real-IP": "203.0.113.7"}, "203.0.113.7"},
		{"forwarded-for beats real-ip", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.9", "X-Real-IP": "203.0.113.7"}, "203.0.113.9"},
	}

	keyFunc := IPKeyFunc()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := keyFunc(req); got != tt.want {
				t.Errorf("key = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCallerKeyFunc(t *testing.T) {
	keyFunc := CallerKeyFunc()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:4242"
	req = req.WithContext(SetCallerID(req.Context(), "scene-orchestrator"))
	if got := keyFunc(req); got != "caller:scene-orchestrator" {
		t.Errorf("authenticated key = %q", got)
	}

	anon := httptest.NewRequest(http.MethodGet, "/", nil)
	anon.RemoteAddr = "192.0.2.1:4242"
	if got := keyFunc(anon); got != "ip:192.0.2.1" {
		t.Errorf("anonymous key = %q", got)
	}
}

// TestStackedLimitersCountIndependently exercises the server wiring where a
// route-specific limiter sits inside the global one, both backed by the same
// store and key function. Traffic through only the global limiter must not
// consume the inner budget, and a request through both limiters must still
// be admitted by the inner one.
func TestStackedLimitersCountIndependently(t *testing.T) {
	store := NewInMemoryRateLimitStore()
	keyFunc := CallerKeyFunc()
	globalConfig := RateLimitConfig{RequestsPerWindow: 100, WindowDuration: time.Minute, Scope: "global"}
	selectionConfig := RateLimitConfig{RequestsPerWindow: 1, WindowDuration: time.Minute, Scope: "selection"}

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	globalOnly := RateLimiter(store, globalConfig, keyFunc)(ok)
	both := RateLimiter(store, globalConfig, keyFunc)(RateLimiter(store, selectionConfig, keyFunc)(ok))

	send := func(handler http.Handler) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:4242"
		req = req.WithContext(SetCallerID(req.Context(), "scene-orchestrator"))
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Burn well past the inner limit using only the outer limiter.
	for i := 0; i < 30; i++ {
		if code := send(globalOnly); code != http.StatusOK {
			t.Fatalf("global-only request %d: status = %d", i+1, code)
		}
	}

	// The caller's first pass through the inner limiter must succeed.
	if code := send(both); code != http.StatusOK {
		t.Fatalf("first request through stacked limiters: status = %d, want 200", code)
	}

	// The inner budget of 1 is now spent; the second stacked request blocks.
	if code := send(both); code != http.StatusTooManyRequests {
		t.Fatalf("second request through stacked limiters: status = %d, want 429", code)
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	store := NewInMemoryRateLimitStore()
	config := RateLimitConfig{RequestsPerWindow: 2, WindowDuration: time.Minute}
	handler := RateLimiter(store, config, IPKeyFunc())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:4242"
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:4242"
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
	if rec.Header().Get("X-RateLimit-Reset") == "" {
		t.Error("missing X-RateLimit-Reset header")
	}
}
