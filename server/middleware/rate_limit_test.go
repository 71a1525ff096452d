package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 20; i++ {
		assert.True(t, rl.Allow("caller"))
	}
	assert.False(t, rl.Allow("caller"))
}

func TestRateLimiterIsolatesCallers(t *testing.T) {
	rl := NewRateLimiter()
	rl.burst = 1
	rl.every = time.Hour

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter()
	rl.burst = 1
	rl.every = time.Hour

	e := echo.New()
	handler := RateLimit(rl)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	do := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", token)
		}
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))
		return rec
	}

	assert.Equal(t, http.StatusOK, do("Bearer t1").Code)
	assert.Equal(t, http.StatusTooManyRequests, do("Bearer t1").Code)
	// A different caller is unaffected.
	assert.Equal(t, http.StatusOK, do("Bearer t2").Code)
}
