package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/carejournal/api/internal/platform/auth"
)

func rateLimitedContext(e *echo.Echo, userID string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/journals", nil)
	if userID != "" {
		ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
		req = req.WithContext(ctx)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestRateLimit_AllowsWithinLimit(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	for i := 0; i < 10; i++ {
		c := rateLimitedContext(e, "user-1")
		if err := h(c); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}
}

func TestRateLimit_BlocksOverBurst(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.01, BurstSize: 1})
	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	c1 := rateLimitedContext(e, "user-1")
	if err := h(c1); err != nil {
		t.Fatalf("first request: unexpected error: %v", err)
	}

	c2 := rateLimitedContext(e, "user-1")
	err := h(c2)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %v", err)
	}
	if c2.Response().Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429")
	}
}

func TestRateLimit_SeparateBucketsPerUser(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.01, BurstSize: 1})
	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	if err := h(rateLimitedContext(e, "user-1")); err != nil {
		t.Fatalf("user-1: unexpected error: %v", err)
	}
	// user-1 is now exhausted, user-2 should still pass.
	if err := h(rateLimitedContext(e, "user-2")); err != nil {
		t.Fatalf("user-2: unexpected error: %v", err)
	}
	if err := h(rateLimitedContext(e, "user-1")); err == nil {
		t.Fatal("user-1 second request: expected rate limit error")
	}
}

func TestRateLimit_FallsBackToIP(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.01, BurstSize: 1})
	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	if err := h(rateLimitedContext(e, "")); err != nil {
		t.Fatalf("first anonymous request: unexpected error: %v", err)
	}
	if err := h(rateLimitedContext(e, "")); err == nil {
		t.Fatal("second anonymous request from same IP: expected rate limit error")
	}
}

func TestDefaultRateLimitConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	if cfg.RequestsPerSecond != 100 {
		t.Errorf("expected 100 rps, got %f", cfg.RequestsPerSecond)
	}
	if cfg.BurstSize != 200 {
		t.Errorf("expected burst 200, got %d", cfg.BurstSize)
	}
}
