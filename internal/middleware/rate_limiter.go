package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apierrors "github.com/hmuro/productivity-tracker/internal/errors"
)

// RateLimiter applies a fixed-window per-client-IP request limit.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	type bucket struct {
		count int
		start time.Time
	}

	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
	)

	return func(c *gin.Context) {
		now := time.Now()
		key := c.ClientIP()

		mu.Lock()
		b, ok := buckets[key]
		if !ok || now.Sub(b.start) > window {
			b = &bucket{start: now}
			buckets[key] = b
		}

		if b.count >= limit {
			mu.Unlock()
			apierrors.RespondWithError(c, http.StatusTooManyRequests,
				apierrors.NewAPIError("RATE_LIMITED", "Rate limit exceeded"))
			c.Abort()
			return
		}

		b.count++
		mu.Unlock()

		c.Next()
	}
}
