package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func limitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(rl.Middleware())
	r.POST("/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func hit(r *gin.Engine, remoteAddr string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:            rate.Limit(0.001),
		Burst:           3,
		CleanupInterval: time.Minute,
		MaxIdle:         time.Minute,
	})
	defer rl.Stop()
	r := limitedRouter(rl)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:1234"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1:1234"))
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:            rate.Limit(0.001),
		Burst:           1,
		CleanupInterval: time.Minute,
		MaxIdle:         time.Minute,
	})
	defer rl.Stop()
	r := limitedRouter(rl)

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1:1234"))

	// A different client still has its full budget.
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2:1234"))
}
