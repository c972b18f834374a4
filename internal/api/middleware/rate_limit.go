package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	pkgerrors "tipsy/pkg/errors"
	"tipsy/pkg/metrics"
	"tipsy/pkg/redis"
	"tipsy/pkg/response"
)

// maxLocalLimiters bounds the fallback limiter map.
const maxLocalLimiters = 10000

// RateLimiter throttles per client IP and route. Redis holds a sliding
// window shared across instances; without Redis, or when it errors, a
// per-process token bucket takes over.
type RateLimiter struct {
	rdb     *redis.Client
	limit   int
	window  time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger

	mu    sync.Mutex
	local map[string]*rate.Limiter
}

// NewRateLimiter allows limit requests per window. rdb may be nil.
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration, m *metrics.Metrics, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:     rdb,
		limit:   limit,
		window:  window,
		metrics: m,
		logger:  logger,
		local:   make(map[string]*rate.Limiter),
	}
}

// Handler returns the middleware. A non-positive limit disables it.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		route := c.FullPath()
		key := c.ClientIP() + ":" + route
		if rl.allow(c, key) {
			c.Next()
			return
		}

		rl.metrics.ObserveRateLimited(route)
		c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
		response.AbortFail(c, pkgerrors.ErrRateLimited)
	}
}

func (rl *RateLimiter) allow(c *gin.Context, key string) bool {
	if rl.rdb != nil {
		allowed, _, err := rl.rdb.CheckRateLimit(c.Request.Context(), key, rl.limit, rl.window)
		if err == nil {
			return allowed
		}
		rl.logger.Warn("redis rate limit failed, using local limiter", zap.Error(err))
	}
	return rl.localLimiter(key).Allow()
}

func (rl *RateLimiter) localLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.local[key]
	if !ok {
		if len(rl.local) >= maxLocalLimiters {
			rl.local = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(rate.Every(rl.window/time.Duration(rl.limit)), rl.limit)
		rl.local[key] = l
	}
	return l
}
