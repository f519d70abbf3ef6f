package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type stubLimiter struct {
	allowed    bool
	retryAfter time.Duration
	err        error
	scope      string
	subject    string
}

func (l *stubLimiter) Allow(_ context.Context, scope, subject string) (bool, time.Duration, error) {
	l.scope, l.subject = scope, subject
	return l.allowed, l.retryAfter, l.err
}

func serveRateLimited(t *testing.T, limiter Limiter) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.7")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := RateLimit(limiter, "login", zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestRateLimit_Allows(t *testing.T) {
	l := &stubLimiter{allowed: true}
	rec, called := serveRateLimited(t, l)

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected request to pass, got %d", rec.Code)
	}
	if l.scope != "login" || l.subject != "203.0.113.7" {
		t.Fatalf("unexpected limiter key: %s/%s", l.scope, l.subject)
	}
}

func TestRateLimit_Rejects(t *testing.T) {
	rec, called := serveRateLimited(t, &stubLimiter{allowed: false, retryAfter: 42 * time.Second})

	if called {
		t.Fatalf("should not reach next handler")
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "42" {
		t.Fatalf("expected Retry-After 42, got %q", got)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	rec, called := serveRateLimited(t, &stubLimiter{err: errors.New("redis down")})

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected fail-open, got %d", rec.Code)
	}
}

func TestRateLimit_NilLimiter(t *testing.T) {
	rec, called := serveRateLimited(t, nil)

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("nil limiter should disable throttling, got %d", rec.Code)
	}
}
