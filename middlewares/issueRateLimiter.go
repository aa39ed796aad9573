package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// IssueRateLimiter caps how many issues a caller may create per day,
// backed by a Redis INCR with a 24h TTL. Authenticated callers are keyed
// by user id; anonymous reporters fall back to their client IP.
func IssueRateLimiter(rdb *redis.Client, queuePrefix string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userIDVal, exists := c.Get("user_id"); exists {
			if userID, ok := userIDVal.(string); ok && userID != "" {
				key = userID
			}
		}

		ctx := c.Request.Context()
		userKey := queuePrefix + ":" + key

		count, err := rdb.Incr(ctx, userKey).Result()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "redis error incrementing count"})
			c.Abort()
			return
		}

		// Set TTL only for the first increment (when count = 1)
		if count == 1 {
			if err := rdb.Expire(ctx, userKey, 24*time.Hour).Err(); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "redis error setting TTL"})
				c.Abort()
				return
			}
		}

		if count > int64(limit) {
			retryAfter, _ := rdb.TTL(ctx, userKey).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message":     "rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
