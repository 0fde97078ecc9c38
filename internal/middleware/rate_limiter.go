package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"integrafacturacion/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateStore is the subset of *redis.Client the limiter needs. Counters live in
// Redis so every API instance shares the same window.
type RateStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RateLimiter is a fixed-window limiter keyed by prefix and client IP.
// If Redis is unavailable requests pass: the limiter must never take the POS
// down with it.
func RateLimiter(store RateStore, prefix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || limit <= 0 {
			c.Next()
			return
		}
		now := time.Now()
		slot := now.Unix() / int64(window.Seconds())
		key := fmt.Sprintf("rl:%s:%s:%d", prefix, c.ClientIP(), slot)

		ctx := c.Request.Context()
		n, err := store.Incr(ctx, key).Result()
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("rate limiter: redis unavailable, allowing request")
			c.Next()
			return
		}
		if n == 1 {
			store.Expire(ctx, key, window)
		}
		if n > int64(limit) {
			reset := time.Unix((slot+1)*int64(window.Seconds()), 0)
			c.Header("Retry-After", strconv.Itoa(int(time.Until(reset).Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, &apierror.APIError{
				Message: "Demasiadas solicitudes. Intente nuevamente en un momento.",
				Code:    "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}
