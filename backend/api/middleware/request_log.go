package middleware

import (
	"time"

	"artfolio/backend/common"
	"artfolio/backend/model"

	"github.com/gin-gonic/gin"
)

// RequestLogger records every API request for the traffic analytics
// screens. Recording happens after the handler so failures can never
// affect the response.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		userId := int64(0)
		username := ""
		if id, ok := c.Get("id"); ok {
			if v, ok := id.(int); ok {
				userId = int64(v)
			}
		}
		if name, ok := c.Get("username"); ok {
			if v, ok := name.(string); ok {
				username = v
			}
		}

		entry := &model.RequestLog{
			UserId:     userId,
			Username:   username,
			Method:     common.Truncate(c.Request.Method, 10),
			Path:       common.Truncate(c.Request.URL.Path, 500),
			Status:     c.Writer.Status(),
			DurationMs: time.Since(start).Milliseconds(),
			Ip:         c.ClientIP(),
			UserAgent:  common.Truncate(c.Request.UserAgent(), 256),
			Country:    c.GetHeader("CF-IPCountry"),
			LoggedAt:   start.Unix(),
		}
		go model.RecordRequestLog(entry)
	}
}
