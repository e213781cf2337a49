package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"natesa/backend/pkg/response"
)

// WindowLimiter shared sliding-window limiter, satisfied by *redis.Client.
type WindowLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit allows limit requests per window for each client IP and route.
// Counting happens in the shared limiter; when it is nil or failing the
// process-local token buckets decide.
func RateLimit(shared WindowLimiter, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	local := newLocalLimiter(limit, window)

	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())

		var allowed bool
		if shared != nil {
			ok, err := shared.CheckRateLimit(c.Request.Context(), key, limit, window)
			if err == nil {
				allowed = ok
			} else {
				logger.Warn("shared rate limiter unavailable, using local limiter", zap.Error(err))
				allowed = local.allow(key)
			}
		} else {
			allowed = local.allow(key)
		}

		if !allowed {
			response.Abort(c, http.StatusTooManyRequests, response.CodeTooManyRequests, "too many requests, try again later")
			return
		}

		c.Next()
	}
}

// localLimiter per-key token buckets refilling limit tokens per window.
type localLimiter struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	buckets map[string]*rate.Limiter
}

func newLocalLimiter(limit int, window time.Duration) *localLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &localLimiter{
		every:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		buckets: make(map[string]*rate.Limiter),
	}
}

func (l *localLimiter) allow(key string) bool {
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.every, l.burst)
		l.buckets[key] = b
	}
	l.mu.Unlock()
	return b.Allow()
}
