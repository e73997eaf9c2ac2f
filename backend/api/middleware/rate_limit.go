package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"artfolio/backend/common"

	"github.com/gin-gonic/gin"
)

var inMemoryRateLimiter = struct {
	sync.Mutex
	hits map[string][]int64
}{hits: map[string][]int64{}}

// ResetMemoryRateLimiter clears the in-memory counters. Test helper.
func ResetMemoryRateLimiter() {
	inMemoryRateLimiter.Lock()
	inMemoryRateLimiter.hits = map[string][]int64{}
	inMemoryRateLimiter.Unlock()
}

func redisRateLimit(c *gin.Context, key string, maxRequests int, window time.Duration) {
	ctx := context.Background()
	count, err := common.RDB.Incr(ctx, key).Result()
	if err != nil {
		common.SysError("rate limiter redis failure: " + err.Error())
		c.Next()
		return
	}
	if count == 1 {
		common.RDB.Expire(ctx, key, window)
	}
	if count > int64(maxRequests) {
		common.RespErrorStr(c, http.StatusTooManyRequests, "too many requests, please try again later")
		c.Abort()
		return
	}
	c.Next()
}

func memoryRateLimit(c *gin.Context, key string, maxRequests int, window time.Duration) {
	now := time.Now().Unix()
	cutoff := now - int64(window.Seconds())

	inMemoryRateLimiter.Lock()
	hits := inMemoryRateLimiter.hits[key]
	kept := hits[:0]
	for _, t := range hits {
		if t > cutoff {
			kept = append(kept, t)
		}
	}
	over := len(kept) >= maxRequests
	if !over {
		kept = append(kept, now)
	}
	inMemoryRateLimiter.hits[key] = kept
	inMemoryRateLimiter.Unlock()

	if over {
		common.RespErrorStr(c, http.StatusTooManyRequests, "too many requests, please try again later")
		c.Abort()
		return
	}
	c.Next()
}

// RateLimit throttles by client IP within a sliding window. Uses Redis
// when available so limits hold across instances.
func RateLimit(prefix string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rl:%s:%s", prefix, c.ClientIP())
		if common.RedisEnabled && common.RDB != nil {
			redisRateLimit(c, key, maxRequests, window)
			return
		}
		memoryRateLimit(c, key, maxRequests, window)
	}
}

// CriticalRateLimit guards login, registration and token endpoints.
func CriticalRateLimit() gin.HandlerFunc {
	return RateLimit("critical", 20, 20*time.Minute)
}

// GlobalAPIRateLimit is the coarse per-IP ceiling on the whole API.
func GlobalAPIRateLimit() gin.HandlerFunc {
	return RateLimit("global", 300, 3*time.Minute)
}
