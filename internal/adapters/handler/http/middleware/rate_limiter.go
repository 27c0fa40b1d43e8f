package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const rateLimitPrefix = "learnify:ratelimit:"

// RateLimiter counts requests per client IP in fixed windows stored in Redis.
// Each window gets its own key, so a counter never outlives its window by more
// than one expiry.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		logger: logger.Named("rate_limiter"),
		now:    time.Now,
	}
}

// Handler rejects clients over the limit with 429. Redis failures let the
// request through.
func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := l.now()
		bucket := now.UnixNano() / int64(l.window)
		reset := time.Unix(0, (bucket+1)*int64(l.window))
		key := rateLimitPrefix + c.ClientIP() + ":" + strconv.FormatInt(bucket, 10)

		ctx := c.Request.Context()
		pipe := l.rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.window)
		if _, err := pipe.Exec(ctx); err != nil {
			l.logger.Warn("limiter skipped", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		count := incr.Val()
		remaining := max(int64(l.limit)-count, 0)
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if count > int64(l.limit) {
			retry := int(reset.Sub(now).Round(time.Second).Seconds())
			c.Header("Retry-After", strconv.Itoa(max(retry, 1)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many requests",
				"retry_after": max(retry, 1),
			})
			return
		}
		c.Next()
	}
}
