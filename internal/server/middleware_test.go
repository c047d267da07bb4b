package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestIPRateLimiter_BurstThenRefill(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 2, time.Minute)
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("10.0.0.1"))
	require.True(t, l.Allow("10.0.0.1"))
	require.False(t, l.Allow("10.0.0.1"))

	// Other clients have their own bucket.
	require.True(t, l.Allow("10.0.0.2"))

	now = now.Add(time.Second)
	require.True(t, l.Allow("10.0.0.1"))
}

func TestIPRateLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 1, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")
	now = now.Add(30 * time.Second)
	l.Allow("10.0.0.2")

	now = now.Add(45 * time.Second)
	require.Equal(t, 1, l.Cleanup())
	require.Len(t, l.limiters, 1)
	require.Contains(t, l.limiters, "10.0.0.2")
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	limited := r.Group("/", RateLimit(NewIPRateLimiter(0.001, 1, time.Minute)))
	limited.POST("/api/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/metrics", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp
	}

	require.Equal(t, http.StatusOK, post().Code)

	resp := post()
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	require.Equal(t, "1", resp.Header().Get("Retry-After"))
	require.Contains(t, resp.Body.String(), `"error_type":"rate_limited"`)

	// Routes outside the group are not limited.
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, get(t, r, "/health").Code)
	}
}
