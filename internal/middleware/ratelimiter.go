package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	// One address gets this many access-request emails per window.
	// Keeps a stranger from burning the SendGrid quota on someone
	// else's inbox.
	accessRequestLimit  = 5
	accessRequestWindow = time.Minute
)

// RateLimiter throttles per client IP with a redis counter. Redis
// errors fail open: a cache outage must not take the endpoint down
// with it.
type RateLimiter struct {
	rdb *redis.Client
}

func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{rdb: rdb}
}

// LimitAccessRequests throttles the email access-request endpoint.
func (rl *RateLimiter) LimitAccessRequests() gin.HandlerFunc {
	return rl.limit("access_request", accessRequestLimit, accessRequestWindow)
}

func (rl *RateLimiter) limit(scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s", scope, c.ClientIP())

		count, err := rl.rdb.Incr(c, key).Result()
		if err != nil {
			c.Next()
			return
		}

		// First hit in the window sets the TTL.
		if count == 1 {
			rl.rdb.Expire(c, key, window)
		}

		if count > int64(limit) {
			ttl, _ := rl.rdb.TTL(c, key).Result()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": fmt.Sprintf("%.0f minutes", ttl.Minutes()),
			})
			return
		}
		c.Next()
	}
}
